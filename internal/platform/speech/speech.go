package speech

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	apperrors "microwins/internal/platform/errors"
)

// Provider turns one utterance into text.
type Provider interface {
	Name() string
	Transcribe(ctx context.Context) (string, error)
}

// Unavailable is used when no speech capability is configured.
type Unavailable struct{}

func (Unavailable) Name() string { return "unavailable" }

func (Unavailable) Transcribe(context.Context) (string, error) {
	return "", fmt.Errorf("voice input is not supported here: %w", apperrors.ErrCapabilityUnavailable)
}

// CommandProvider runs an external recorder/transcriber and reads the
// transcript from its stdout.
type CommandProvider struct {
	path string
	args []string
}

func NewCommandProvider(path string, args ...string) CommandProvider {
	return CommandProvider{path: path, args: args}
}

func (p CommandProvider) Name() string { return p.path }

func (p CommandProvider) Transcribe(ctx context.Context) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.path, p.args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("transcribe: %s: %w", msg, err)
		}
		return "", fmt.Errorf("transcribe: %w", err)
	}
	text := strings.TrimSpace(stdout.String())
	if text == "" {
		return "", fmt.Errorf("transcribe: empty transcript: %w", apperrors.ErrInvalidInput)
	}
	return text, nil
}

// Resolve picks a provider for command, a whitespace separated command line.
// Empty commands and binaries missing from PATH resolve to Unavailable.
func Resolve(command string) Provider {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return Unavailable{}
	}
	path, err := exec.LookPath(fields[0])
	if err != nil {
		return Unavailable{}
	}
	return NewCommandProvider(path, fields[1:]...)
}
