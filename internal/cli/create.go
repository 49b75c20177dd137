package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	api "github.com/docflow/docflow/api/v1alpha1"
	"github.com/docflow/docflow/internal/client"
)

type CreateOptions struct {
	GlobalOptions

	InvoiceType string
	Amount      float64
	Metadata    []string
}

func DefaultCreateOptions() *CreateOptions {
	return &CreateOptions{
		GlobalOptions: DefaultGlobalOptions(),
		InvoiceType:   string(api.DocumentTypeInvoice),
	}
}

func NewCmdCreate() *cobra.Command {
	o := DefaultCreateOptions()
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a draft document.",
		Args:  cobra.NoArgs,
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

func (o *CreateOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVar(&o.InvoiceType, "type", o.InvoiceType, "Document type: invoice, receipt or \"proof of payment\"")
	fs.Float64Var(&o.Amount, "amount", o.Amount, "Document amount, must be positive")
	fs.StringArrayVar(&o.Metadata, "metadata", nil, "Metadata entry in KEY=VALUE form, may be repeated")
}

func (o *CreateOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	for _, entry := range o.Metadata {
		if !strings.Contains(entry, "=") {
			return fmt.Errorf("invalid metadata entry %q, expected KEY=VALUE", entry)
		}
	}
	return nil
}

func (o *CreateOptions) Run(ctx context.Context, args []string) error {
	c, err := client.NewFromConfigFile(o.ConfigFilePath)
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	create := api.DocumentCreate{
		InvoiceType: api.DocumentType(o.InvoiceType),
		Amount:      o.Amount,
	}
	if len(o.Metadata) > 0 {
		create.Metadata = make(map[string]any, len(o.Metadata))
		for _, entry := range o.Metadata {
			key, value, _ := strings.Cut(entry, "=")
			create.Metadata[key] = value
		}
	}

	document, err := c.CreateDocument(ctx, create)
	if err != nil {
		return fmt.Errorf("creating document: %w", err)
	}
	fmt.Printf("%s\n", document.Id)
	return nil
}
