// Package prompt asks the user to confirm destructive steps, such as
// replacing an existing output file.
package prompt

import (
	"context"
	"errors"
	"io"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ConfirmConfig configures a yes/no style prompt.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// Driver abstracts the terminal implementation so callers can be tested
// without a real terminal.
type Driver interface {
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
}

// ConfirmFunc adapts a function into a Driver.
type ConfirmFunc func(ctx context.Context, cfg ConfirmConfig) (bool, error)

// Confirm implements Driver.
func (f ConfirmFunc) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	return f(ctx, cfg)
}

// Option customises the survey driver.
type Option func(*surveyDriver)

// WithStdio routes prompts through the given streams instead of the process
// terminal.
func WithStdio(in terminal.FileReader, out terminal.FileWriter, errOut io.Writer) Option {
	return func(d *surveyDriver) {
		d.askOpts = append(d.askOpts, survey.WithStdio(in, out, errOut))
	}
}

type surveyDriver struct {
	askOpts []survey.AskOpt
}

// NewSurvey returns a Driver backed by github.com/AlecAivazis/survey.
func NewSurvey(options ...Option) Driver {
	d := &surveyDriver{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}
	return d
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	prompt := &survey.Confirm{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	if err := survey.AskOne(prompt, &out, d.askOpts...); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
