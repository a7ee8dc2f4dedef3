/*
Copyright 2024 Stefan Prodan

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/fluxcd/pkg/ssa"
	ssautil "github.com/fluxcd/pkg/ssa/utils"
	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/rs/zerolog"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	runtimeLog "sigs.k8s.io/controller-runtime/pkg/log"
)

// NewConsoleLogger returns a human-friendly Logger writing to out.
// Pretty print adds timestamp, log level and colorized output to the logs.
func NewConsoleLogger(out io.Writer, colorize, prettify bool) logr.Logger {
	color.NoColor = !colorize
	zconfig := zerolog.ConsoleWriter{Out: out, NoColor: !colorize}
	if !prettify {
		zconfig.PartsExclude = []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
		}
	}

	zlog := zerolog.New(zconfig).With().Timestamp().Logger()

	// Create a logr.Logger using zerolog as sink.
	zerologr.VerbosityFieldName = ""
	log := zerologr.New(&zlog)

	// Set controller-runtime logger.
	runtimeLog.SetLogger(log)

	return log
}

var (
	colorDryRun       = color.New(color.FgHiBlack, color.Italic)
	colorError        = color.New(color.FgHiRed)
	colorCallerPrefix = color.New(color.FgHiBlack)
	colorBinding      = color.New(color.FgHiMagenta)
	colorPerAction    = map[ssa.Action]*color.Color{
		ssa.ConfiguredAction: color.New(color.FgHiCyan),
		ssa.UnchangedAction:  color.New(color.FgHiBlack),
		ssa.SkippedAction:    color.New(color.FgYellow),
		ssa.UnknownAction:    color.New(color.FgHiRed, color.Italic),
	}
)

type DryRunType string

const (
	DryRunServer DryRunType = "(server dry run)"
)

func ColorizeJoin(values ...any) string {
	var sb strings.Builder
	for i, v := range values {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(ColorizeAny(v))
	}
	return sb.String()
}

func ColorizeAny(v any) string {
	switch v := v.(type) {
	case *unstructured.Unstructured:
		return ColorizeUnstructured(v)
	case DryRunType:
		return ColorizeDryRun(v)
	case ssa.Action:
		return ColorizeAction(v)
	case error:
		return ColorizeError(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func ColorizeSubject(subject string) string {
	return color.CyanString(subject)
}

func ColorizeWarning(subject string) string {
	return color.YellowString(subject)
}

func ColorizeUnstructured(object *unstructured.Unstructured) string {
	return ColorizeSubject(ssautil.FmtUnstructured(object))
}

func ColorizeAction(action ssa.Action) string {
	if c, ok := colorPerAction[action]; ok {
		return c.Sprint(action)
	}
	return action.String()
}

func ColorizeChange(subject string, action ssa.Action) string {
	return fmt.Sprintf("%s %s", ColorizeSubject(subject), ColorizeAction(action))
}

func ColorizeDryRun(dryRun DryRunType) string {
	return colorDryRun.Sprint(string(dryRun))
}

func ColorizeError(err error) string {
	return colorError.Sprint(err.Error())
}

// ColorizeBinding returns the binding name prefixed with its namespace.
func ColorizeBinding(namespace, name string) string {
	return colorCallerPrefix.Sprint("b:") + colorBinding.Sprint(namespace+"/"+name)
}

// StartSpinner starts a spinner with the given message.
func StartSpinner(msg string) interface{ Stop() } {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + msg
	s.Start()
	return s
}
