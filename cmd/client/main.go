// Command chatcore is a line-oriented client for the chatcore server.
package main

import (
	"bufio"
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/and161185/chatcore/internal/client"
	"github.com/and161185/chatcore/internal/crypto/clientcrypto"
	"github.com/and161185/chatcore/internal/wire"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "chatcore")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "chatcore")
}

func defaultKeyPath() string { return filepath.Join(cfgDir(), "identity.key") }

func prompt(label string) ([]byte, error) {
	fmt.Fprint(os.Stderr, label)
	b, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	return b, err
}

func usage() {
	fmt.Fprintf(os.Stderr, `chatcore client
Usage:
  chatcore version
  chatcore keygen  [-key file]
  chatcore session -addr HOST:PORT [-cacert file | -insecure | -plaintext] [-email addr] [-key file]

session reads one JSON request envelope per stdin line and prints each reply.
With -email it logs in first (password read from the terminal). With -key,
messages without a signature are signed with the stored identity.
`)
	os.Exit(2)
}

// main dispatches subcommands.
func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch flag.Arg(0) {
	case "version":
		fmt.Printf("chatcore %s (%s)\n", version, buildDate)
	case "keygen":
		err = cmdKeygen(flag.Args()[1:])
	case "session":
		err = cmdSession(ctx, flag.Args()[1:])
	default:
		usage()
	}
	if err != nil {
		fail(err)
	}
}

func cmdKeygen(args []string) error {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	path := fs.String("key", defaultKeyPath(), "identity key file")
	_ = fs.Parse(args)

	if _, err := os.Stat(*path); err == nil {
		return fmt.Errorf("%s already exists", *path)
	}
	pass, err := prompt("Passphrase: ")
	if err != nil {
		return err
	}
	again, err := prompt("Repeat passphrase: ")
	if err != nil {
		return err
	}
	if string(pass) != string(again) {
		return errors.New("passphrases do not match")
	}

	pub, priv, err := clientcrypto.GenerateIdentity()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(*path), 0o700); err != nil {
		return err
	}
	if err := clientcrypto.SaveKey(*path, priv, pass); err != nil {
		return err
	}
	// the value to send as public_key in CREATE USERS
	fmt.Println(base64.StdEncoding.EncodeToString(pub))
	return nil
}

func cmdSession(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("session", flag.ExitOnError)
	addr := fs.String("addr", "localhost:8443", "server addr")
	caPath := fs.String("cacert", "", "CA cert (PEM)")
	insecureTLS := fs.Bool("insecure", false, "skip cert verify (dev)")
	plaintext := fs.Bool("plaintext", false, "no TLS (dev)")
	email := fs.String("email", "", "log in as this user first")
	keyPath := fs.String("key", "", "identity key file for signing messages")
	_ = fs.Parse(args)

	var priv ed25519.PrivateKey
	if *keyPath != "" {
		pass, err := prompt("Key passphrase: ")
		if err != nil {
			return err
		}
		if priv, err = clientcrypto.LoadKey(*keyPath, pass); err != nil {
			return err
		}
	}

	creds, err := transportCreds(*caPath, *insecureTLS, *plaintext)
	if err != nil {
		return err
	}
	cl, err := client.Dial(*addr, creds)
	if err != nil {
		return err
	}
	defer cl.Close()

	sess, err := cl.Open(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	if *email != "" {
		pw, err := prompt("Password: ")
		if err != nil {
			return err
		}
		env, err := client.VerifyEnvelope(*email, string(pw))
		if err != nil {
			return err
		}
		r, err := sess.Do(env)
		if err != nil {
			return err
		}
		if r.Error != nil {
			return fmt.Errorf("login: %s: %s", r.Error.Code, r.Error.Message)
		}
		fmt.Fprintln(os.Stderr, "logged in as", *email)
	}

	return runSession(sess, os.Stdin, os.Stdout, priv)
}

// doer sends one envelope and returns its reply.
type doer interface {
	Do(envelope []byte) (*wire.Reply, error)
}

// runSession forwards each non-blank line of in and writes each reply to out
// as one JSON line. Request errors are printed, not returned.
func runSession(sess doer, in io.Reader, out io.Writer, priv ed25519.PrivateKey) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 64*1024), 4<<20)
	enc := json.NewEncoder(out)

	for sc.Scan() {
		line := []byte(strings.TrimSpace(sc.Text()))
		if len(line) == 0 {
			continue
		}
		if priv != nil {
			signed, err := client.SignMessages(line, priv)
			if err != nil {
				fmt.Fprintln(os.Stderr, "skip:", err)
				continue
			}
			line = signed
		}
		reply, err := sess.Do(line)
		if err != nil {
			return err
		}
		if err := enc.Encode(reply); err != nil {
			return err
		}
	}
	return sc.Err()
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
