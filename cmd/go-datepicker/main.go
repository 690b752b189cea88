package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/tartampluch/go-datepicker/internal/config"
)

// main delegates to runMain so deferred calls run before os.Exit.
func main() {
	os.Exit(runMain())
}

func runMain() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := &app{}
	defer a.close()

	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Debug(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

func printVersion(w io.Writer) {
	_, _ = fmt.Fprintf(w, config.MsgVersionOutput,
		config.AppName, config.Version, config.Commit, config.Date, runtime.GOOS, runtime.GOARCH)
}

func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyBuilt, config.Date),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// installLogger makes a JSON logger writing to console and, when the cache
// directory is usable, to a log file truncated on every start. The returned
// closer is nil when no file was opened.
func installLogger(console io.Writer, debug bool) io.Closer {
	out := console
	file, err := openLogFile()
	if err != nil {
		_, _ = fmt.Fprintf(console, config.MsgLogWarning, config.ErrLogFile, config.LogFileName, err)
	} else {
		out = io.MultiWriter(console, file)
	}

	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(out, opts)))

	if file == nil {
		return nil
	}
	return file
}

// openLogFile creates <user cache dir>/go-datepicker/app.log with owner-only access.
func openLogFile() (*os.File, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}
	dir := filepath.Join(cacheDir, config.AppDirName)
	if err := os.MkdirAll(dir, config.DirPermUserRWX); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}
	return os.OpenFile(filepath.Join(dir, config.LogFileName), os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
}
