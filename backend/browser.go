package backend

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// AuthBrowser drives a visible Chrome window through the provider's
// OAuth consent flow and captures the authorization code from the
// redirect back to the registered callback URL.
type AuthBrowser struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc

	userDataDir string
}

// NewAuthBrowser creates a browser helper. userDataDir persists provider
// cookies between runs so repeat logins skip the password prompt.
func NewAuthBrowser(userDataDir string) *AuthBrowser {
	return &AuthBrowser{userDataDir: userDataDir}
}

// Start launches a headed Chrome. The consent screen needs real user
// interaction, so headless is never used here.
func (b *AuthBrowser) Start() error {
	if err := os.MkdirAll(b.userDataDir, 0755); err != nil {
		return fmt.Errorf("failed to create user data dir: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserDataDir(b.userDataDir),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("headless", false),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	b.allocCancel = allocCancel

	ctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(log.Printf))
	b.ctx = ctx
	b.cancel = cancel

	if err := chromedp.Run(ctx, network.Enable()); err != nil {
		return fmt.Errorf("failed to enable network: %w", err)
	}

	return nil
}

// Stop closes the browser.
func (b *AuthBrowser) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
	if b.allocCancel != nil {
		b.allocCancel()
	}
}

// CaptureCode navigates to loginURL and waits for the provider to
// redirect to a URL starting with redirectPrefix, then returns that
// URL's code query parameter. The window closes once the code is
// captured, so a stale code can never be reprocessed.
func (b *AuthBrowser) CaptureCode(ctx context.Context, loginURL, redirectPrefix string) (string, error) {
	if b.ctx == nil {
		return "", fmt.Errorf("browser not started")
	}

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	chromedp.ListenTarget(b.ctx, func(ev interface{}) {
		e, ok := ev.(*network.EventRequestWillBeSent)
		if !ok {
			return
		}
		if !strings.HasPrefix(e.Request.URL, redirectPrefix) {
			return
		}
		code, err := codeFromRedirect(e.Request.URL)
		if err != nil {
			select {
			case errCh <- err:
			default:
			}
			return
		}
		select {
		case codeCh <- code:
		default:
		}
	})

	if err := chromedp.Run(b.ctx,
		chromedp.Navigate(loginURL),
		chromedp.Sleep(500*time.Millisecond),
	); err != nil {
		return "", fmt.Errorf("failed to open login page: %w", err)
	}

	select {
	case code := <-codeCh:
		return code, nil
	case err := <-errCh:
		return "", err
	case <-ctx.Done():
		return "", fmt.Errorf("login window closed before completing authorization")
	case <-b.ctx.Done():
		return "", fmt.Errorf("login window closed before completing authorization")
	}
}

// codeFromRedirect pulls the code parameter out of the callback URL.
func codeFromRedirect(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("malformed redirect url: %w", err)
	}
	code := u.Query().Get("code")
	if code == "" {
		return "", fmt.Errorf("redirect carried no authorization code")
	}
	return code, nil
}
