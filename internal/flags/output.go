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

package flags

import (
	"fmt"
	"strings"
)

var supportedOutputs = []string{"table", "yaml"}

// Output is the printing format of the list command.
type Output string

func (f *Output) String() string {
	if *f == "" {
		return supportedOutputs[0]
	}
	return string(*f)
}

func (f *Output) Set(str string) error {
	for _, o := range supportedOutputs {
		if str == o {
			*f = Output(str)
			return nil
		}
	}
	return fmt.Errorf("unsupported output format %q, can be '%s'", str, strings.Join(supportedOutputs, "' or '"))
}

func (f *Output) Type() string {
	return "output"
}

func (f *Output) Shorthand() string {
	return "o"
}

func (f *Output) Description() string {
	return "The format in which the bindings should be printed, can be 'table' or 'yaml'."
}

// IsYAML returns true when the output format is yaml.
func (f *Output) IsYAML() bool {
	return *f == "yaml"
}
