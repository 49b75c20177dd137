package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	api "github.com/docflow/docflow/api/v1alpha1"
	"github.com/docflow/docflow/internal/batch"
	"github.com/docflow/docflow/internal/client"
)

type ProcessOptions struct {
	GlobalOptions

	Wait         bool
	PollInterval time.Duration
}

func DefaultProcessOptions() *ProcessOptions {
	return &ProcessOptions{
		GlobalOptions: DefaultGlobalOptions(),
		PollInterval:  batch.DefaultPollInterval,
	}
}

func NewCmdProcess() *cobra.Command {
	o := DefaultProcessOptions()
	cmd := &cobra.Command{
		Use:   "process ID [ID...]",
		Short: "Submit draft documents for batch review.",
		Args:  cobra.MinimumNArgs(1),
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

func (o *ProcessOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.BoolVarP(&o.Wait, "wait", "w", o.Wait, "Wait for the job to finish")
	fs.DurationVar(&o.PollInterval, "poll-interval", o.PollInterval, "Delay between job status fetches while waiting")
}

func (o *ProcessOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	for _, arg := range args {
		if _, err := uuid.Parse(arg); err != nil {
			return fmt.Errorf("invalid document id %q: %w", arg, err)
		}
	}
	return nil
}

func (o *ProcessOptions) Run(ctx context.Context, args []string) error {
	c, err := client.NewFromConfigFile(o.ConfigFilePath)
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	selection := batch.NewSelectionSet()
	for _, id := range args {
		selection.Toggle(id)
	}

	controller := batch.NewControllerWithPoller(c, selection,
		[]batch.PollerOption{batch.WithPollInterval(o.PollInterval)}, c)
	defer controller.Close()

	if !controller.Submit(ctx) {
		return fmt.Errorf("nothing to submit")
	}
	if err := controller.SubmitError(); err != nil {
		return fmt.Errorf("submitting batch: %w", err)
	}

	jobID := controller.JobID()
	if !o.Wait {
		fmt.Printf("%s\n", jobID)
		return nil
	}

	fmt.Printf("watching job %s\n", jobID)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-controller.Done():
	}

	if err := controller.PollError(); err != nil {
		return fmt.Errorf("watching job %s: %w", jobID, err)
	}

	job := controller.Job()
	if job.Status == api.JobStatusFailed {
		detail := ""
		if job.ErrorMessage != nil {
			detail = *job.ErrorMessage
		}
		return fmt.Errorf("job %s failed: %s", jobID, detail)
	}
	fmt.Printf("job %s completed, %d documents reviewed\n", jobID, len(job.DocumentIds))
	return nil
}
