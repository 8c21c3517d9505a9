// Package forumctl implements the operator command line: hashing passwords
// for seeding users and talking to the auth service over gRPC.
package forumctl

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/dmitrijs2005/weekend/internal/common"
	"github.com/dmitrijs2005/weekend/internal/netx"
	"github.com/dmitrijs2005/weekend/internal/server/auth"
)

const usage = `usage: forumctl <command> [flags]

commands:
  hash-password [-cost N]              read a password twice and print its bcrypt hash
  verify-password <hash>               check a password against a bcrypt hash
  login [-addr A] [-user U]            log in over gRPC and print the token
  whoami [-addr A] -token T            show the identity behind a token
  logout [-addr A] -token T            revoke a token
  upload -url U -file F [-type T]      PUT a file to a presigned attachment URL
`

const defaultAddr = "127.0.0.1:50051"

type App struct {
	in  *bufio.Reader
	out io.Writer
	err io.Writer
}

func NewApp(in io.Reader, out, errOut io.Writer) *App {
	return &App{in: bufio.NewReader(in), out: out, err: errOut}
}

// Run executes one command and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.err, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "hash-password":
		err = a.hashPassword(args[1:])
	case "verify-password":
		err = a.verifyPassword(args[1:])
	case "login":
		err = a.login(ctx, args[1:])
	case "whoami":
		err = a.whoAmI(ctx, args[1:])
	case "logout":
		err = a.logout(ctx, args[1:])
	case "upload":
		err = a.upload(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return 0
	default:
		fmt.Fprintf(a.err, "unknown command %q\n%s", args[0], usage)
		return 2
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(a.err, "error:", err)
		return 1
	}
	return 0
}

func (a *App) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.err)
	return fs
}

func (a *App) hashPassword(args []string) error {
	fs := a.newFlagSet("hash-password")
	cost := fs.Int("cost", auth.DefaultBcryptCost, "bcrypt cost")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pw, err := GetNewPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	hash, err := auth.NewBcryptHasher(auth.WithCost(*cost)).Hash(string(pw))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, hash)
	return nil
}

func (a *App) verifyPassword(args []string) error {
	if len(args) != 1 {
		return errors.New("verify-password takes exactly one hash argument")
	}

	pw, err := GetPassword(a.out, "Enter password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	ok, err := auth.NewBcryptHasher().Verify(string(pw), args[0])
	if err != nil {
		return err
	}
	if !ok {
		return auth.ErrIncorrectPassword
	}
	fmt.Fprintln(a.out, "OK")
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := a.newFlagSet("login")
	addr := fs.String("addr", defaultAddr, "gRPC server address")
	user := fs.String("user", "", "user name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *user == "" {
		name, err := GetSimpleText(a.in, "User name", a.out)
		if err != nil {
			return err
		}
		*user = name
	}

	pw, err := GetPassword(a.out, "Enter password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	client, closeConn, err := dialAuth(*addr)
	if err != nil {
		return err
	}
	defer closeConn()

	token, err := client.Login(ctx, *user, string(pw))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, token)
	return nil
}

func (a *App) tokenCommand(name string, args []string) (authClient, func() error, string, error) {
	fs := a.newFlagSet(name)
	addr := fs.String("addr", defaultAddr, "gRPC server address")
	token := fs.String("token", "", "access token")
	if err := fs.Parse(args); err != nil {
		return nil, nil, "", err
	}
	if *token == "" {
		return nil, nil, "", errors.New("-token is required")
	}

	client, closeConn, err := dialAuth(*addr)
	if err != nil {
		return nil, nil, "", err
	}
	return client, closeConn, *token, nil
}

func (a *App) whoAmI(ctx context.Context, args []string) error {
	client, closeConn, token, err := a.tokenCommand("whoami", args)
	if err != nil {
		return err
	}
	defer closeConn()

	who, err := client.WhoAmI(withAuthorization(ctx, token))
	if err != nil {
		return err
	}

	fields := who.AsMap()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(a.out, "%s: %v\n", k, formatValue(fields[k]))
	}
	return nil
}

func (a *App) logout(ctx context.Context, args []string) error {
	client, closeConn, token, err := a.tokenCommand("logout", args)
	if err != nil {
		return err
	}
	defer closeConn()

	if err := client.Logout(withAuthorization(ctx, token)); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "logged out")
	return nil
}

func (a *App) upload(ctx context.Context, args []string) error {
	fs := a.newFlagSet("upload")
	url := fs.String("url", "", "presigned upload URL")
	path := fs.String("file", "", "file to upload")
	contentType := fs.String("type", netx.DefaultContentType, "content type")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *url == "" || *path == "" {
		return errors.New("-url and -file are required")
	}

	f, err := os.Open(*path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	if err := netx.UploadToPresignedURL(ctx, nil, *url, f, info.Size(), *contentType); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "uploaded %d bytes\n", info.Size())
	return nil
}

func formatValue(v any) string {
	list, ok := v.([]any)
	if !ok {
		return fmt.Sprint(v)
	}
	parts := make([]string, 0, len(list))
	for _, x := range list {
		parts = append(parts, fmt.Sprint(x))
	}
	return strings.Join(parts, ",")
}
