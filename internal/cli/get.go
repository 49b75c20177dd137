package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
	"sigs.k8s.io/yaml"

	api "github.com/docflow/docflow/api/v1alpha1"
	"github.com/docflow/docflow/internal/client"
)

const (
	jsonFormat = "json"
	yamlFormat = "yaml"
)

var (
	legalOutputTypes = []string{jsonFormat, yamlFormat}
)

type GetOptions struct {
	GlobalOptions

	Output      string
	Status      string
	InvoiceType string
	Skip        int
	Limit       int
}

func DefaultGetOptions() *GetOptions {
	return &GetOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Limit:         10,
	}
}

func NewCmdGet() *cobra.Command {
	o := DefaultGetOptions()
	cmd := &cobra.Command{
		Use:   "get (TYPE | TYPE/ID)",
		Short: "Display one or many resources.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *GetOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
	fs.StringVar(&o.Status, "status", o.Status, "Filter documents by status")
	fs.StringVar(&o.InvoiceType, "type", o.InvoiceType, "Filter documents by invoice type")
	fs.IntVar(&o.Skip, "skip", o.Skip, "Number of documents to skip")
	fs.IntVar(&o.Limit, "limit", o.Limit, "Maximum number of documents to list")
}

func (o *GetOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}

	_, _, err := parseAndValidateKindId(args[0])
	if err != nil {
		return err
	}

	if len(o.Output) > 0 && !funk.Contains(legalOutputTypes, o.Output) {
		return fmt.Errorf("output format must be one of %s", strings.Join(legalOutputTypes, ", "))
	}

	return nil
}

func (o *GetOptions) Run(ctx context.Context, args []string) error {
	c, err := client.NewFromConfigFile(o.ConfigFilePath)
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	kind, id, err := parseAndValidateKindId(args[0])
	if err != nil {
		return err
	}

	var response interface{}
	switch {
	case kind == DocumentKind && id != nil:
		response, err = c.GetDocument(ctx, id.String())
	case kind == DocumentKind && id == nil:
		response, err = c.ListDocuments(ctx, o.listParams())
	case kind == JobKind && id != nil:
		response, err = c.GetJob(ctx, id.String())
	default:
		return fmt.Errorf("listing %s is not supported", plural(kind))
	}
	if err != nil {
		if id != nil {
			return fmt.Errorf("reading %s/%s: %w", kind, id, err)
		}
		return fmt.Errorf("listing %s: %w", plural(kind), err)
	}

	switch o.Output {
	case jsonFormat:
		marshalled, err := json.Marshal(response)
		if err != nil {
			return fmt.Errorf("marshalling resource: %w", err)
		}
		fmt.Printf("%s\n", string(marshalled))
		return nil
	case yamlFormat:
		marshalled, err := yaml.Marshal(response)
		if err != nil {
			return fmt.Errorf("marshalling resource: %w", err)
		}
		fmt.Printf("%s\n", string(marshalled))
		return nil
	default:
		return printTable(response)
	}
}

func (o *GetOptions) listParams() *client.ListDocumentsParams {
	params := &client.ListDocumentsParams{
		Skip:  &o.Skip,
		Limit: &o.Limit,
	}
	if o.Status != "" {
		status := api.DocumentStatus(o.Status)
		params.Status = &status
	}
	if o.InvoiceType != "" {
		invoiceType := api.DocumentType(o.InvoiceType)
		params.InvoiceType = &invoiceType
	}
	return params
}

func printTable(response interface{}) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 1, '\t', 0)
	switch r := response.(type) {
	case *api.DocumentList:
		printDocumentsTable(w, r.Items...)
	case *api.Document:
		printDocumentsTable(w, *r)
	case *api.Job:
		printJobsTable(w, *r)
	default:
		return fmt.Errorf("unknown response type %T", response)
	}
	w.Flush()
	return nil
}

func printDocumentsTable(w *tabwriter.Writer, documents ...api.Document) {
	fmt.Fprintln(w, "ID\tTYPE\tAMOUNT\tSTATUS\tCREATED")
	for _, d := range documents {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\n", d.Id, d.InvoiceType, d.Amount, d.Status, d.CreatedAt.Format(time.RFC3339))
	}
}

func printJobsTable(w *tabwriter.Writer, jobs ...api.Job) {
	fmt.Fprintln(w, "ID\tSTATUS\tDOCUMENTS\tCOMPLETED")
	for _, j := range jobs {
		completed := ""
		if j.CompletedAt != nil {
			completed = j.CompletedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", j.Id, j.Status, len(j.DocumentIds), completed)
	}
}
