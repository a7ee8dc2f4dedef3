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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fluxcd/pkg/ssa"
	"github.com/spf13/cobra"

	"github.com/openshift/svcat-cleanup/internal/cleanup"
	"github.com/openshift/svcat-cleanup/internal/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Remove the service-catalog owner references from the Secrets of ServiceBindings",
	Long: `The run command lists the servicecatalog.k8s.io/v1beta1 ServiceBindings, fetches the Secret
each binding points to and merge-patches the Secret without the owner references
of the service-catalog API group.

Bindings whose Secret is missing are skipped. The run stops at the first Secret
that has no owner references at all.`,
	Example: `  # Clean up the Secrets of all ServiceBindings in the cluster
  svcat-cleanup run

  # Clean up the Secrets of the ServiceBindings in a namespace
  svcat-cleanup run -n apps

  # Do a server-side dry run and print the owner references changes
  svcat-cleanup run --dry-run --diff
`,
	RunE: runRunCmd,
}

type runFlags struct {
	dryrun bool
	diff   bool
}

var runArgs runFlags

func init() {
	runCmd.Flags().BoolVar(&runArgs.dryrun, "dry-run", false,
		"Perform a server-side dry run of the Secret patches.")
	runCmd.Flags().BoolVar(&runArgs.diff, "diff", false,
		"Print the owner references diff of every patched Secret.")
	rootCmd.AddCommand(runCmd)
}

func runRunCmd(cmd *cobra.Command, args []string) error {
	log := LoggerFrom(cmd.Context())

	kubeClient, err := kubeClientFactory(kubeconfigArgs)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), rootArgs.timeout)
	defer cancel()

	runner := cleanup.NewRunner(kubeClient, *kubeconfigArgs.Namespace)
	runner.DryRun = runArgs.dryrun

	result, runErr := runner.Run(ctx)
	if result == nil {
		return runErr
	}

	if runArgs.diff {
		if err := printOwnersDiff(ctx, result); err != nil {
			return err
		}
	}

	if len(result.Entries) > 0 {
		var rows [][]string
		for _, entry := range result.Entries {
			rows = append(rows, []string{
				entry.Binding.Name,
				entry.Binding.Namespace,
				entry.Binding.SecretName,
				fmt.Sprintf("%d", entry.Removed),
				logger.ColorizeAction(entry.Action),
			})
		}
		printTable(rootCmd.OutOrStdout(), []string{"binding", "namespace", "secret", "removed", "action"}, rows)
	}

	summary := fmt.Sprintf("%d binding(s) found, %d secret(s) patched, %d skipped, %d failed",
		result.Bindings, result.Patched(), result.Skipped(), result.Failed())
	if runArgs.dryrun {
		summary = logger.ColorizeJoin(summary, logger.DryRunServer)
	}
	log.Info(summary)

	if result.Halted {
		log.Info(logger.ColorizeWarning(fmt.Sprintf("stopped at %s, %s has no owner references",
			result.HaltedAt, result.HaltedAt.SecretRef())))
	}

	return runErr
}

func printOwnersDiff(ctx context.Context, result *cleanup.Result) error {
	tmpDir, err := os.MkdirTemp("", "svcat-cleanup")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	for _, entry := range result.Entries {
		if entry.Action != ssa.ConfiguredAction {
			continue
		}
		loggerBinding(ctx, entry.Binding.Namespace, entry.Binding.Name, rootArgs.prettyLog).
			Info(logger.ColorizeChange(entry.Binding.SecretRef(), entry.Action))
		if err := diffOwnerReferences(entry, tmpDir, rootCmd.OutOrStdout()); err != nil {
			return err
		}
	}
	return nil
}
