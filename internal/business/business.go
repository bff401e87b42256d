// Package business wires the configured backends into the client's use
// cases: account management, image analysis, and history review. Each CLI
// command constructs one App, runs one use case, and exits.
package business

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/valkey-io/valkey-go"

	slogctx "github.com/veqryn/slog-context"

	"github.com/medicoin/imaging-client/internal/apiclient"
	"github.com/medicoin/imaging-client/internal/assets"
	"github.com/medicoin/imaging-client/internal/config"
	"github.com/medicoin/imaging-client/internal/history"
	"github.com/medicoin/imaging-client/internal/processing"
	"github.com/medicoin/imaging-client/internal/serviceerr"
	"github.com/medicoin/imaging-client/internal/session"
	"github.com/medicoin/imaging-client/internal/store"
	filestore "github.com/medicoin/imaging-client/internal/store/file"
	valkeystore "github.com/medicoin/imaging-client/internal/store/valkey"
	"github.com/medicoin/imaging-client/internal/upload"
)

// App holds the wired collaborators for one invocation.
type App struct {
	cfg *config.Config
	out io.Writer

	values   store.Store
	sessions *session.Manager
	workflow *upload.Workflow
	history  *history.Store
	assets   *assets.Resolver
}

type Option func(*App)

// WithOutput redirects the rendered output, mainly for tests.
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

// NewApp wires the persistent store and both service clients, then resolves
// the initial session state. The returned close function releases the store
// backend.
func NewApp(ctx context.Context, cfg *config.Config, opts ...Option) (_ *App, closeFn func(), _ error) {
	app := &App{cfg: cfg, out: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}

	values, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("initialising the persistent store: %w", err)
	}
	app.values = values

	authAPI, err := apiclient.New(cfg.Auth.BaseURL, values, apiclient.WithTimeout(cfg.Auth.Timeout))
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("initialising the auth client: %w", err)
	}

	processingAPI, err := apiclient.New(cfg.Processing.BaseURL, values, apiclient.WithTimeout(cfg.Processing.Timeout))
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("initialising the processing client: %w", err)
	}

	app.sessions = session.NewManager(authAPI, values)
	app.history = history.New(values)
	app.workflow = upload.NewWorkflow(ctx, processingAPI, app.history)
	app.assets = assets.NewResolver(processingAPI)

	// The session starts Unknown; the probe resolves it before any guard
	// decision is taken.
	app.sessions.Bootstrap(ctx)

	return app, func() {
		app.workflow.Close()
		closeStore()
	}, nil
}

func newStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreBackendValKey:
		valkeyHost, err := commoncfg.LoadValueFromSourceRef(cfg.Store.ValKey.Host)
		if err != nil {
			return nil, nil, fmt.Errorf("loading valkey host: %w", err)
		}

		valkeyUsername, err := commoncfg.LoadValueFromSourceRef(cfg.Store.ValKey.User)
		if err != nil {
			return nil, nil, fmt.Errorf("loading valkey username: %w", err)
		}

		valkeyPassword, err := commoncfg.LoadValueFromSourceRef(cfg.Store.ValKey.Password)
		if err != nil {
			return nil, nil, fmt.Errorf("loading valkey password: %w", err)
		}

		valkeyClient, err := valkey.NewClient(valkey.ClientOption{
			InitAddress: []string{string(valkeyHost)},
			Username:    string(valkeyUsername),
			Password:    string(valkeyPassword),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("creating a new valkey client: %w", err)
		}

		return valkeystore.New(valkeyClient, cfg.Store.ValKey.Prefix), valkeyClient.Close, nil
	default:
		path := cfg.Store.Path
		if path == "" {
			configDir, err := os.UserConfigDir()
			if err != nil {
				return nil, nil, fmt.Errorf("resolving the user config directory: %w", err)
			}
			path = filepath.Join(configDir, "imaging-client", "state.json")
		}

		slogctx.Debug(ctx, "Using the file store", "path", path)

		return filestore.New(path), func() {}, nil
	}
}

// requireSignedIn gates member-only use cases the way protected routes are
// gated: an anonymous session is turned away towards sign-in.
func (a *App) requireSignedIn() error {
	decision := session.NewProtectedGuard().Decide(a.sessions.Current().Status)
	if decision.Action == session.ActionRedirect {
		return serviceerr.ErrSignInRequired
	}

	return nil
}

// requireSignedOut gates guest-only use cases: an authenticated session is
// sent back to the member area instead.
func (a *App) requireSignedOut() error {
	decision := session.NewGuestGuard().Decide(a.sessions.Current().Status)
	if decision.Action == session.ActionRedirect {
		return serviceerr.ErrAlreadySignedIn
	}

	return nil
}

func (a *App) SignUp(ctx context.Context, registration session.Registration) error {
	if err := a.requireSignedOut(); err != nil {
		return err
	}

	result, err := a.sessions.SignUp(ctx, registration)
	if err != nil {
		return err
	}

	message := result.Message
	if message == "" {
		message = "account created, you can sign in now"
	}
	fmt.Fprintln(a.out, message)

	return nil
}

func (a *App) SignIn(ctx context.Context, email, password string) error {
	if err := a.requireSignedOut(); err != nil {
		return err
	}

	current, err := a.sessions.SignIn(ctx, email, password)
	if err != nil {
		return err
	}

	if current.User != nil {
		fmt.Fprintf(a.out, "signed in as %s %s <%s>\n", current.User.FirstName, current.User.LastName, current.User.Email)
	} else {
		fmt.Fprintln(a.out, "signed in")
	}

	return nil
}

func (a *App) SignOut(ctx context.Context) error {
	if err := a.sessions.SignOut(ctx); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "signed out")

	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	if err := a.requireSignedIn(); err != nil {
		return err
	}

	user := a.sessions.Current().User

	fmt.Fprintf(a.out, "%s %s <%s>\n", user.FirstName, user.LastName, user.Email)
	if user.Specialization != "" {
		fmt.Fprintf(a.out, "specialization: %s\n", user.Specialization)
	}

	return nil
}

// AnalyzeRequest describes one analysis run.
type AnalyzeRequest struct {
	// Path locates the image to send.
	Path string
	// Task selects the analysis mode; empty means classification.
	Task string
	// Output is where a segmentation image is written. Empty derives a name
	// from the input path.
	Output string
	// ArtifactDir, when set, downloads the result artifacts into it.
	ArtifactDir string
}

func (a *App) Analyze(ctx context.Context, req AnalyzeRequest) error {
	if err := a.requireSignedIn(); err != nil {
		return err
	}

	task := processing.TaskClassification
	if req.Task != "" {
		var err error
		if task, err = processing.ParseTaskKind(req.Task); err != nil {
			return err
		}
	}

	content, err := os.ReadFile(req.Path)
	if err != nil {
		return fmt.Errorf("reading the image: %w", err)
	}

	if err := a.workflow.SelectTask(task); err != nil {
		return err
	}
	if err := a.workflow.SelectFile(ctx, filepath.Base(req.Path), content); err != nil {
		return err
	}

	result, err := a.workflow.Submit(ctx)
	if err != nil {
		return err
	}

	switch result.Task {
	case processing.TaskSegmentation:
		return a.renderSegmentation(req, result.Image)
	default:
		return a.renderClassification(ctx, req, result.Classification)
	}
}

func (a *App) renderSegmentation(req AnalyzeRequest, image []byte) error {
	output := req.Output
	if output == "" {
		base := strings.TrimSuffix(req.Path, filepath.Ext(req.Path))
		output = base + ".segmentation.png"
	}

	if err := os.WriteFile(output, image, 0o600); err != nil {
		return fmt.Errorf("writing the segmentation image: %w", err)
	}

	fmt.Fprintf(a.out, "segmentation image written to %s\n", output)

	return nil
}

func (a *App) renderClassification(ctx context.Context, req AnalyzeRequest, result *processing.ClassificationResult) error {
	fmt.Fprintf(a.out, "prediction:  %s\n", result.Classification.Prediction)
	fmt.Fprintf(a.out, "probability: %.1f%% (%s)\n",
		result.Classification.Probability,
		probabilityBand(result.Classification.Probability),
	)

	for _, ref := range []string{result.SegmentationMaskURL, result.AnnotatedImageURL} {
		if ref == "" {
			continue
		}

		if req.ArtifactDir == "" {
			resolved, err := a.assets.ResolveURL(ref)
			if err != nil {
				slogctx.Warn(ctx, "Skipping an unresolvable artifact reference", "ref", ref, "error", err)
				continue
			}
			fmt.Fprintf(a.out, "artifact:    %s\n", resolved)

			continue
		}

		saved, err := a.saveArtifact(ctx, req.ArtifactDir, ref)
		if err != nil {
			slogctx.Warn(ctx, "Failed to download an artifact", "ref", ref, "error", err)
			continue
		}
		fmt.Fprintf(a.out, "artifact:    %s\n", saved)
	}

	return nil
}

func (a *App) saveArtifact(ctx context.Context, dir, ref string) (string, error) {
	asset, err := a.assets.Fetch(ctx, ref)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("creating the artifact directory: %w", err)
	}

	name := filepath.Base(ref)
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, asset.Content, 0o600); err != nil {
		return "", fmt.Errorf("writing the artifact: %w", err)
	}

	return target, nil
}

// History prints past classification results, newest last, the order they
// were recorded in. A non-positive limit prints everything.
func (a *App) History(ctx context.Context, limit int) error {
	if err := a.requireSignedIn(); err != nil {
		return err
	}

	entries := a.history.ReadAll(ctx)
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "no classification history yet")
		return nil
	}

	for i, entry := range entries {
		fmt.Fprintf(a.out, "%3d. %-10s %.1f%% (%s)\n",
			i+1,
			entry.Classification.Prediction,
			entry.Classification.Probability,
			probabilityBand(entry.Classification.Probability),
		)
	}

	return nil
}

// probabilityBand buckets a malignancy probability for display: below 30 is
// low concern, up to 70 moderate, above that high.
func probabilityBand(probability float64) string {
	switch {
	case probability < 30:
		return "low confidence"
	case probability <= 70:
		return "moderate confidence"
	default:
		return "high confidence"
	}
}
