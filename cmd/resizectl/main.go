// resizectl resizes one image through a picloom server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/ahmedsomaa/picloom/internal/client"
	"github.com/ahmedsomaa/picloom/internal/entity"
	"github.com/ahmedsomaa/picloom/internal/session"
	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "resizectl:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	flags := pflag.NewFlagSet("resizectl", pflag.ContinueOnError)
	flags.StringP("file", "f", "", "image to resize (png, jpg, jpeg, webp)")
	flags.StringP("width", "w", "", "new width in pixels, empty keeps the aspect ratio")
	flags.StringP("height", "h", "", "new height in pixels, empty keeps the aspect ratio")
	flags.StringP("out", "o", "", "where to save the resized image")
	flags.String("server", "http://localhost:8080", "picloom server base URL")
	flags.Duration("timeout", 0, "request timeout, 0 waits forever")
	flags.String("log-level", "warn", "log level")
	if err := flags.Parse(args); err != nil {
		return err
	}

	v := viper.New()
	v.SetEnvPrefix("PICLOOM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return err
	}

	level, err := logrus.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	path := v.GetString("file")
	if path == "" {
		return errors.New("--file is required")
	}

	img, err := loadImage(path)
	if err != nil {
		return err
	}

	s := session.New(client.NewResizeClient(v.GetString("server"), v.GetDuration("timeout")), session.LogNotifier{})
	s.SelectFile(img)
	if err := s.SetWidth(v.GetString("width")); err != nil {
		return err
	}
	if err := s.SetHeight(v.GetString("height")); err != nil {
		return err
	}

	if err := s.Submit(ctx); err != nil {
		return fmt.Errorf("%s: %w", session.FailureTitle, err)
	}

	result, _ := s.Result()
	out := v.GetString("out")
	if out == "" {
		out = defaultOutput(path, result)
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := s.Download(f); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "saved %s\n", out)
	s.Reset()
	return nil
}

func loadImage(path string) (*entity.SelectedImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return &entity.SelectedImage{
		Name:      filepath.Base(path),
		MediaType: mimetype.Detect(data).String(),
		Data:      data,
	}, nil
}

// defaultOutput names the result after the input, with the extension of
// the returned media type.
func defaultOutput(path, result string) string {
	ext := filepath.Ext(path)
	if mediaType, _, err := entity.DecodeDataURI(result); err == nil && mediaType != "" {
		if mt := mimetype.Lookup(mediaType); mt != nil {
			ext = mt.Extension()
		}
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + "-resized" + ext
}

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logrus.SetOutput(os.Stderr)
}
