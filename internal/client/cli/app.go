// Package cli implements the estoquehub terminal pages: login and
// registration, the product dashboard and the stock reports view.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/estoquehub/internal/client"
	"github.com/estoquehub/internal/model"
	"golang.org/x/term"
)

// ErrNotLoggedIn gates protected commands. It is a client-side check only.
var ErrNotLoggedIn = errors.New("not logged in, run 'estoquehub login' first")

// API is the subset of *client.Client the pages use.
type API interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.LoginResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	Profile(ctx context.Context, s *client.Session) (*model.User, error)
	ListProducts(ctx context.Context, s *client.Session, search string) ([]model.Product, error)
	GetProduct(ctx context.Context, s *client.Session, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, s *client.Session, req *model.CreateProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, s *client.Session, id string, req *model.UpdateProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, s *client.Session, id string) error
	Summary(ctx context.Context, s *client.Session) (*model.StockSummary, error)
	LowStock(ctx context.Context, s *client.Session) ([]model.Product, error)
	Export(ctx context.Context, s *client.Session) ([]byte, error)
	History(ctx context.Context, s *client.Session, limit int) ([]model.StockReport, error)
	RunReport(ctx context.Context, s *client.Session) (*model.StockReport, error)
}

type SessionStorer interface {
	Load() (*client.Session, error)
	Save(session *client.Session) error
	Clear() error
}

type App struct {
	api      API
	sessions SessionStorer
	in       *bufio.Reader
	out      io.Writer
	now      func() time.Time

	// readSecret reads a password without echo when stdin is a terminal.
	readSecret func() (string, error)
}

// NewApp creates a new terminal app
func NewApp(api API, sessions SessionStorer, in io.Reader, out io.Writer) *App {
	a := &App{
		api:      api,
		sessions: sessions,
		in:       bufio.NewReader(in),
		out:      out,
		now:      time.Now,
	}
	a.readSecret = func() (string, error) { return GetSimpleText(a.in, "", io.Discard) }
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		a.readSecret = func() (string, error) {
			pw, err := term.ReadPassword(int(f.Fd()))
			fmt.Fprintln(a.out)
			if err != nil {
				return "", err
			}
			return string(pw), nil
		}
	}
	return a
}

// RequireSession returns the stored session when it is still valid. An
// expired session is cleared.
func (a *App) RequireSession() (*client.Session, error) {
	session, err := a.sessions.Load()
	if err != nil {
		if errors.Is(err, client.ErrNoSession) {
			return nil, ErrNotLoggedIn
		}
		return nil, err
	}
	if !session.Valid(a.now()) {
		_ = a.sessions.Clear()
		return nil, ErrNotLoggedIn
	}
	return session, nil
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) password(prompt string) (string, error) {
	if _, err := fmt.Fprint(a.out, prompt+": "); err != nil {
		return "", err
	}
	return a.readSecret()
}
