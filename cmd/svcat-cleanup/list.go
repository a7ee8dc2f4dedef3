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
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/yaml"

	"github.com/openshift/svcat-cleanup/internal/cleanup"
	"github.com/openshift/svcat-cleanup/internal/flags"
	"github.com/openshift/svcat-cleanup/internal/logger"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Prints a table of ServiceBindings and the owner references of their Secrets",
	Example: `  # List the ServiceBindings in all namespaces
  svcat-cleanup list

  # List the ServiceBindings in a namespace as YAML
  svcat-cleanup list -n apps -o yaml
`,
	RunE: runListCmd,
}

type listFlags struct {
	output flags.Output
}

var listArgs listFlags

func init() {
	listCmd.Flags().VarP(&listArgs.output, listArgs.output.Type(), listArgs.output.Shorthand(), listArgs.output.Description())

	rootCmd.AddCommand(listCmd)
}

type bindingStatus struct {
	cleanup.Binding `json:",inline"`
	Status          string `json:"status"`
	Owners          int    `json:"owners"`
	StaleOwners     int    `json:"staleOwners"`
}

func runListCmd(cmd *cobra.Command, args []string) error {
	kubeClient, err := kubeClientFactory(kubeconfigArgs)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), rootArgs.timeout)
	defer cancel()

	spin := logger.StartSpinner("fetching service bindings")
	defer spin.Stop()

	statuses, err := listBindingStatuses(ctx, kubeClient, *kubeconfigArgs.Namespace)
	if err != nil {
		return err
	}

	spin.Stop()

	if listArgs.output.IsYAML() {
		data, err := yaml.Marshal(statuses)
		if err != nil {
			return err
		}
		_, err = rootCmd.OutOrStdout().Write(data)
		return err
	}

	var rows [][]string
	for _, st := range statuses {
		rows = append(rows, []string{
			st.Name,
			st.Namespace,
			st.SecretName,
			st.Status,
			fmt.Sprintf("%d", st.Owners),
			fmt.Sprintf("%d", st.StaleOwners),
		})
	}
	printTable(rootCmd.OutOrStdout(), []string{"binding", "namespace", "secret", "status", "owners", "stale owners"}, rows)

	return nil
}

func listBindingStatuses(ctx context.Context, kubeClient client.Client, namespace string) ([]bindingStatus, error) {
	objects, err := cleanup.ListBindings(ctx, kubeClient, namespace)
	if err != nil {
		return nil, err
	}

	statuses := make([]bindingStatus, 0, len(objects))
	for _, obj := range objects {
		binding, err := cleanup.BindingFrom(obj)
		if err != nil {
			LoggerFrom(ctx).Error(err, "invalid binding", "binding", logger.ColorizeUnstructured(obj))
			statuses = append(statuses, bindingStatus{Binding: binding, Status: "Invalid"})
			continue
		}

		secret := &corev1.Secret{}
		err = kubeClient.Get(ctx, client.ObjectKey{Namespace: binding.Namespace, Name: binding.SecretName}, secret)
		switch {
		case apierrors.IsNotFound(err):
			statuses = append(statuses, bindingStatus{Binding: binding, Status: "NotFound"})
		case err != nil:
			return nil, fmt.Errorf("failed to get %s: %w", binding.SecretRef(), err)
		default:
			refs := secret.GetOwnerReferences()
			statuses = append(statuses, bindingStatus{
				Binding:     binding,
				Status:      "Found",
				Owners:      len(refs),
				StaleOwners: cleanup.CountServiceCatalogOwners(refs),
			})
		}
	}

	return statuses, nil
}

func printTable(writer io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(writer)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)
	table.AppendBulk(rows)
	table.Render()
}
