package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	errs "marketpulse/pkg/errors"
	"marketpulse/pkg/logger"
	"marketpulse/pkg/pacing"
)

// LoginPage is the browser surface needed for an interactive login
type LoginPage interface {
	Navigate(ctx context.Context, url string) error
	Cookies(ctx context.Context) ([]Cookie, error)
	Close() error
}

// LoginLauncher opens a visible browser for the operator
type LoginLauncher func(ctx context.Context) (LoginPage, error)

// Authenticator regenerates the session blob through a manual login
type Authenticator struct {
	Store     *Store
	Launch    LoginLauncher
	Pacer     *pacing.Policy
	WarmupURL string
	SiteURL   string
	Warmup    pacing.Range
	Logger    logger.Logger

	// Prompt is read for the operator's confirmation. Nil means stdin, which
	// must then be a terminal.
	Prompt io.Reader
	// Out receives the login instructions. Nil means stdout.
	Out io.Writer
	// Notify is called once the browser is ready for the operator
	Notify func(title, message string)
}

// Ensure returns nil when the stored session is still valid and otherwise
// runs Regenerate
func (a *Authenticator) Ensure(ctx context.Context) error {
	if a.Store.Valid() {
		a.Logger.WithField("path", a.Store.Path).Info("Using saved session")
		return nil
	}
	a.Logger.WithField("path", a.Store.Path).Warn("Session missing or expired, manual login required")
	return a.Regenerate(ctx)
}

// Regenerate opens a browser, waits for the operator to log in and press
// Enter, then overwrites the blob with every cookie of the session. The
// browser is closed on every exit path.
func (a *Authenticator) Regenerate(ctx context.Context) (err error) {
	prompt := a.Prompt
	if prompt == nil {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errs.New(errs.ErrorTypeSession, "login", "interactive login requires a terminal on stdin")
		}
		prompt = os.Stdin
	}
	out := a.Out
	if out == nil {
		out = os.Stdout
	}

	page, err := a.Launch(ctx)
	if err != nil {
		return errs.Wrap(errs.ErrorTypeBrowser, "login", err)
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			a.Logger.WithError(cerr).Warn("Failed to close login browser")
		}
	}()

	if a.WarmupURL != "" {
		if err := page.Navigate(ctx, a.WarmupURL); err != nil {
			return errs.Wrap(errs.ErrorTypeBrowser, "login", err)
		}
		if _, err := a.Pacer.Sleep(ctx, a.Warmup); err != nil {
			return err
		}
	}
	if err := page.Navigate(ctx, a.SiteURL); err != nil {
		return errs.Wrap(errs.ErrorTypeBrowser, "login", err)
	}

	fmt.Fprintln(out, "Log in to the site in the browser window that just opened.")
	fmt.Fprintln(out, "Once your home feed is visible, press Enter here to save the session...")
	if a.Notify != nil {
		a.Notify("marketpulse", "Manual login required")
	}

	if err := waitForEnter(ctx, prompt); err != nil {
		return errs.Wrap(errs.ErrorTypeSession, "login", err)
	}

	cookies, err := page.Cookies(ctx)
	if err != nil {
		return errs.Wrap(errs.ErrorTypeBrowser, "login", err)
	}
	if err := a.Store.Save(cookies); err != nil {
		return err
	}

	a.Logger.WithFields(map[string]interface{}{
		"path":    a.Store.Path,
		"cookies": len(cookies),
	}).Info("Session saved")
	return nil
}

// waitForEnter blocks until a line is read from r or ctx is done. There is
// no timeout.
func waitForEnter(ctx context.Context, r io.Reader) error {
	done := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(r).ReadString('\n')
		if errors.Is(err, io.EOF) {
			err = errors.New("input closed before confirmation")
		}
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
