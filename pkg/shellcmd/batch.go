package shellcmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/kballard/go-shellquote"
	"gopkg.in/yaml.v3"

	"github.com/macropower/shellkit/pkg/redact"
	"github.com/macropower/shellkit/pkg/shell"
)

var (
	ErrInvalidBatch = errors.New("invalid batch")
	ErrReadBatch    = errors.New("failed to read batch")
)

// Duration wraps [time.Duration] so that values like "30s" parse from YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string

	err := value.Decode(&s)
	if err != nil {
		return fmt.Errorf("decode duration: %w", err)
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}

	*d = Duration(parsed)

	return nil
}

// Defaults apply to every command in a batch unless overridden per command.
type Defaults struct {
	Env     map[string]string `yaml:"env,omitempty"`
	Dir     string            `yaml:"dir,omitempty"`
	Charset string            `yaml:"charset,omitempty"`
	Timeout Duration          `yaml:"timeout,omitempty"`
	Shell   bool              `yaml:"shell,omitempty"`
}

// BatchCommand describes one command in a batch. Exactly one of Run (a shell
// word string) or Args (an explicit argument vector) must be set.
type BatchCommand struct {
	Env     map[string]string `yaml:"env,omitempty"`
	Name    string            `yaml:"name,omitempty"`
	Run     string            `yaml:"run,omitempty"`
	Dir     string            `yaml:"dir,omitempty"`
	Charset string            `yaml:"charset,omitempty"`
	Args    []string          `yaml:"args,omitempty"`
	Timeout Duration          `yaml:"timeout,omitempty"`
	Shell   bool              `yaml:"shell,omitempty"`
}

// Batch is a named set of commands executed together.
type Batch struct {
	Name           string         `yaml:"name,omitempty"`
	Defaults       Defaults       `yaml:"defaults,omitempty"`
	Commands       []BatchCommand `yaml:"commands"`
	MaxConcurrency int            `yaml:"maxConcurrency,omitempty"`
}

// LoadBatch reads and validates a batch file. Settings can be overridden via
// environment variables named after the field, e.g. SHELLKIT_MAX_CONCURRENCY.
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadBatch, err)
	}

	return ParseBatch(data)
}

// ParseBatch parses and validates batch YAML with strict field checking.
func ParseBatch(data []byte) (*Batch, error) {
	b := &Batch{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBatch, err)
	}

	if v, ok := envOverride("maxConcurrency"); ok {
		mc, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: maxConcurrency override: %w", ErrInvalidBatch, err)
		}

		b.MaxConcurrency = mc
	}

	err = b.Validate()
	if err != nil {
		return nil, err
	}

	return b, nil
}

// Validate checks batch invariants.
func (b *Batch) Validate() error {
	if len(b.Commands) == 0 {
		return fmt.Errorf("%w: no commands", ErrInvalidBatch)
	}

	if b.MaxConcurrency < 0 {
		return fmt.Errorf("%w: maxConcurrency must not be negative", ErrInvalidBatch)
	}

	seen := map[string]bool{}

	for i := range b.Commands {
		bc := &b.Commands[i]

		if bc.Run == "" && len(bc.Args) == 0 {
			return fmt.Errorf("%w: command %d: one of run or args is required", ErrInvalidBatch, i)
		}

		if bc.Run != "" && len(bc.Args) > 0 {
			return fmt.Errorf("%w: command %d: run and args are mutually exclusive", ErrInvalidBatch, i)
		}

		if bc.Name == "" {
			if bc.Run != "" {
				bc.Name = bc.Run
			} else {
				bc.Name = shellquote.Join(bc.Args...)
			}
		}

		if seen[bc.Name] {
			return fmt.Errorf("%w: duplicate command name %q", ErrInvalidBatch, bc.Name)
		}

		seen[bc.Name] = true
	}

	return nil
}

// build materializes a [*shell.Command], applying batch defaults. Extra
// options apply last, so they win over the batch configuration.
func (bc *BatchCommand) build(d Defaults, r redact.Redactor, extra ...shell.Option) (*shell.Command, error) {
	args := bc.Args
	if bc.Run != "" {
		var err error

		args, err = shellquote.Split(bc.Run)
		if err != nil {
			return nil, fmt.Errorf("%w: split %q: %w", ErrInvalidBatch, bc.Run, err)
		}
	}

	env := map[string]string{}
	for k, v := range d.Env {
		env[k] = v
	}

	for k, v := range bc.Env {
		env[k] = v
	}

	dir := bc.Dir
	if dir == "" {
		dir = d.Dir
	}

	charset := bc.Charset
	if charset == "" {
		charset = d.Charset
	}

	timeout := bc.Timeout
	if timeout == 0 {
		timeout = d.Timeout
	}

	opts := []shell.Option{
		shell.WithDir(dir),
		shell.WithEnv(env),
		shell.WithCharset(charset),
		shell.WithTimeout(time.Duration(timeout)),
		shell.WithRedactor(r),
	}
	if bc.Shell || d.Shell {
		opts = append(opts, shell.WithShell())
	}

	opts = append(opts, extra...)

	return shell.New(args, opts...)
}

// envOverride looks up the override variable for a config field, e.g.
// "maxConcurrency" maps to SHELLKIT_MAX_CONCURRENCY.
func envOverride(field string) (string, bool) {
	return os.LookupEnv("SHELLKIT_" + strcase.ToScreamingSnake(field))
}
