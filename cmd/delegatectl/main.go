// delegatectl creates, inspects, and verifies NIP-26 delegation tags.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/relaykit/delegation"
	"github.com/relaykit/delegation/keys"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
	}
	switch os.Args[1] {
	case "keygen":
		runKeygen()
	case "create":
		runCreate(os.Args[2:])
	case "verify":
		runVerify(os.Args[2:])
	case "inspect":
		runInspect(os.Args[2:])
	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: delegatectl <command> [flags]

commands:
  keygen    generate a key pair and print its nsec/npub/hex forms
  create    sign a delegation tag
  verify    check a delegation tag against a delegatee and event properties
  inspect   print the fields of a delegation tag`)
	os.Exit(2)
}

func runKeygen() {
	k, err := keys.Generate()
	if err != nil {
		log.Fatalf("keygen: %v", err)
	}
	nsec, err := k.Nsec()
	if err != nil {
		log.Fatalf("keygen: %v", err)
	}
	npub, err := k.Npub()
	if err != nil {
		log.Fatalf("keygen: %v", err)
	}
	secretHex, _ := k.SecretHex()
	fmt.Printf("nsec:       %s\n", nsec)
	fmt.Printf("npub:       %s\n", npub)
	fmt.Printf("secret hex: %s\n", secretHex)
	fmt.Printf("pubkey hex: %s\n", k.PublicKeyHex())
}

func runCreate(args []string) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	secret := fs.String("sec", "", "delegator secret key, hex or nsec (default: $DELEGATION_SECRET_KEY)")
	delegatee := fs.String("delegatee", "", "delegatee public key, hex or npub")
	conditions := fs.String("conditions", "", "conditions query string, e.g. kind=1&created_at<1700000000")
	fs.Parse(args)

	sec := strings.TrimSpace(*secret)
	if sec == "" {
		sec = strings.TrimSpace(os.Getenv("DELEGATION_SECRET_KEY"))
	}
	if sec == "" {
		log.Fatalf("create: missing -sec (or set DELEGATION_SECRET_KEY)")
	}
	if *delegatee == "" {
		log.Fatalf("create: missing -delegatee")
	}

	delegator, err := parseSecretKey(sec)
	if err != nil {
		log.Fatalf("create: %v", err)
	}
	target, err := parsePublicKey(*delegatee)
	if err != nil {
		log.Fatalf("create: %v", err)
	}
	tag, err := delegation.CreateTag(delegator, target.PublicKey(), *conditions)
	if err != nil {
		log.Fatalf("create: %v", err)
	}
	fmt.Println(tag)
}

func runVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	tagJSON := fs.String("tag", "", "delegation tag as a JSON array")
	delegatee := fs.String("delegatee", "", "delegatee public key, hex or npub")
	kind := fs.Uint64("kind", 0, "event kind")
	createdAt := fs.Uint64("created-at", 0, "event creation time, unix seconds")
	fs.Parse(args)

	if *tagJSON == "" {
		log.Fatalf("verify: missing -tag")
	}
	if *delegatee == "" {
		log.Fatalf("verify: missing -delegatee")
	}
	tag, err := delegation.ParseTag(*tagJSON)
	if err != nil {
		log.Fatalf("verify: %v", err)
	}
	target, err := parsePublicKey(*delegatee)
	if err != nil {
		log.Fatalf("verify: %v", err)
	}
	props := delegation.NewEventProperties(*kind, *createdAt)
	if err := tag.Validate(target.PublicKey(), props); err != nil {
		log.Fatalf("verify: %v", err)
	}
	fmt.Println("ok")
}

func runInspect(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	tagJSON := fs.String("tag", "", "delegation tag as a JSON array")
	fs.Parse(args)

	if *tagJSON == "" {
		log.Fatalf("inspect: missing -tag")
	}
	tag, err := delegation.ParseTag(*tagJSON)
	if err != nil {
		log.Fatalf("inspect: %v", err)
	}
	fields := tag.Fields()
	fmt.Printf("delegator:  %s\n", fields[1])
	fmt.Printf("conditions: %s\n", fields[2])
	fmt.Printf("signature:  %s\n", fields[3])
}

func parseSecretKey(s string) (*keys.Keys, error) {
	if strings.HasPrefix(s, "nsec1") {
		return keys.FromNsec(s)
	}
	return keys.FromSecretHex(s)
}

func parsePublicKey(s string) (*keys.Keys, error) {
	if strings.HasPrefix(s, "npub1") {
		return keys.FromNpub(s)
	}
	return keys.FromPublicHex(s)
}
