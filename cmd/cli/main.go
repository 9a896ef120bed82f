// Command gv is a CLI client for the goph-vault HTTP API.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/and161185/goph-vault/internal/convert"
	"github.com/and161185/goph-vault/internal/passgen"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

const mask = "********"

var errUsage = errors.New("usage")

func usage(w io.Writer) {
	fmt.Fprintf(w, `gv CLI
Usage:
  gv [-addr URL] [-cacert file | -insecure] <cmd> [args]

Commands:
  version
  login      [-p <password>]                       (reads stdin if -p is empty; saves token)
  logout
  status                                           (session lifetime)
  list       [-show]
  get        -id <n> [-show]
  add        -title <t> -user <u> [-pass <p> | -gen] [-url <u>] [-notes <n>]
  edit       -id <n> -title <t> -user <u> [-pass <p> | -gen] [-url <u>] [-notes <n>]
  rm         -id <n>
  gen        [-length 16] [-upper=false] [-lower=false] [-digits=false] [-symbols=false] [-exclude-similar]
`)
}

// main runs a single subcommand and exits non-zero on failure.
func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			usage(os.Stderr)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	// global flags
	gfs := flag.NewFlagSet("gv", flag.ContinueOnError)
	gfs.SetOutput(io.Discard)
	addr := gfs.String("addr", envOr("GV_ADDR", "http://localhost:8080"), "server base URL")
	caPath := gfs.String("cacert", "", "CA cert (PEM)")
	insecure := gfs.Bool("insecure", false, "skip cert verify (dev)")
	timeout := gfs.Duration("timeout", 30*time.Second, "request timeout")
	if err := gfs.Parse(args); err != nil || gfs.NArg() < 1 {
		return errUsage
	}
	cmd, rest := gfs.Arg(0), gfs.Args()[1:]

	tlsCfg, err := loadTLS(*caPath, *insecure)
	if err != nil {
		return err
	}
	cli := &apiClient{base: *addr, tls: tlsCfg, timeout: *timeout}

	authed := func() error {
		tok, err := loadToken()
		if err != nil {
			return err
		}
		cli.token = tok
		return nil
	}

	switch cmd {

	case "version":
		fmt.Fprintf(stdout, "gv %s (%s)\n", version, buildDate)

	case "login":
		fs := flag.NewFlagSet("login", flag.ContinueOnError)
		p := fs.String("p", "", "master password")
		if err := fs.Parse(rest); err != nil {
			return errUsage
		}
		pw := *p
		if pw == "" {
			if pw, err = readSecret(stdin); err != nil {
				return err
			}
		}
		lr, err := cli.login(pw)
		if err != nil {
			return err
		}
		if err := saveToken(lr.Token, time.UnixMilli(lr.ExpiresAt)); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "ok")

	case "logout":
		if err := removeToken(); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "ok")

	case "status":
		if err := authed(); err != nil {
			return err
		}
		s, err := cli.session()
		if err != nil {
			return err
		}
		exp := time.UnixMilli(s.ExpiresAt)
		fmt.Fprintf(stdout, "issued=%s expires=%s left=%s\n",
			time.UnixMilli(s.IssuedAt).Format(time.RFC3339),
			exp.Format(time.RFC3339),
			time.Until(exp).Truncate(time.Second))

	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		show := fs.Bool("show", false, "print passwords")
		if err := fs.Parse(rest); err != nil {
			return errUsage
		}
		if err := authed(); err != nil {
			return err
		}
		items, err := cli.list()
		if err != nil {
			return err
		}
		if !*show {
			for i := range items {
				items[i].Password = mask
			}
		}
		printJSON(stdout, items)

	case "get":
		fs := flag.NewFlagSet("get", flag.ContinueOnError)
		id := fs.Int64("id", 0, "item id")
		show := fs.Bool("show", false, "print password")
		if err := fs.Parse(rest); err != nil || *id <= 0 {
			return errUsage
		}
		if err := authed(); err != nil {
			return err
		}
		it, err := cli.get(*id)
		if err != nil {
			return err
		}
		if !*show {
			it.Password = mask
		}
		printJSON(stdout, it)

	case "add", "edit":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		id := fs.Int64("id", 0, "item id (edit only)")
		in := recordFlags(fs)
		if err := fs.Parse(rest); err != nil {
			return errUsage
		}
		if cmd == "edit" && *id <= 0 {
			return errUsage
		}
		if err := authed(); err != nil {
			return err
		}
		req, err := in.request(cli)
		if err != nil {
			return err
		}
		var it convert.RecordDTO
		if cmd == "add" {
			it, err = cli.create(req)
		} else {
			it, err = cli.update(*id, req)
		}
		if err != nil {
			return err
		}
		it.Password = mask
		printJSON(stdout, it)

	case "rm":
		fs := flag.NewFlagSet("rm", flag.ContinueOnError)
		id := fs.Int64("id", 0, "item id")
		if err := fs.Parse(rest); err != nil || *id <= 0 {
			return errUsage
		}
		if err := authed(); err != nil {
			return err
		}
		if err := cli.remove(*id); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "ok")

	case "gen":
		fs := flag.NewFlagSet("gen", flag.ContinueOnError)
		p := policyFlags(fs)
		if err := fs.Parse(rest); err != nil {
			return errUsage
		}
		pw, err := cli.generate(*p)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, pw)

	default:
		return errUsage
	}
	return nil
}

func policyFlags(fs *flag.FlagSet) *passgen.Policy {
	p := passgen.DefaultPolicy()
	fs.IntVar(&p.Length, "length", p.Length, "password length")
	fs.BoolVar(&p.Uppercase, "upper", p.Uppercase, "include A-Z")
	fs.BoolVar(&p.Lowercase, "lower", p.Lowercase, "include a-z")
	fs.BoolVar(&p.Digits, "digits", p.Digits, "include 0-9")
	fs.BoolVar(&p.Symbols, "symbols", p.Symbols, "include symbols")
	fs.BoolVar(&p.ExcludeAmbiguous, "exclude-similar", p.ExcludeAmbiguous, "drop 0 O I l")
	return &p
}

type recordInput struct {
	title, user, pass, url, notes *string
	gen                           *bool
	policy                        *passgen.Policy
}

func recordFlags(fs *flag.FlagSet) recordInput {
	return recordInput{
		title:  fs.String("title", "", "title"),
		user:   fs.String("user", "", "username"),
		pass:   fs.String("pass", "", "password"),
		url:    fs.String("url", "", "login URL"),
		notes:  fs.String("notes", "", "notes"),
		gen:    fs.Bool("gen", false, "generate the password on the server"),
		policy: policyFlags(fs),
	}
}

func (in recordInput) request(cli *apiClient) (convert.RecordRequest, error) {
	pw := *in.pass
	if *in.gen {
		if pw != "" {
			return convert.RecordRequest{}, errors.New("-pass and -gen are exclusive")
		}
		var err error
		if pw, err = cli.generate(*in.policy); err != nil {
			return convert.RecordRequest{}, err
		}
	}
	req := convert.RecordRequest{Title: *in.title, Username: *in.user, Password: pw}
	if *in.url != "" {
		req.LoginURL = in.url
	}
	if *in.notes != "" {
		req.Notes = in.notes
	}
	return req, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
