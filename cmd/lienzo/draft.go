package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aretw0/lienzo"
	"github.com/aretw0/lienzo/internal/docio"
	"github.com/aretw0/lienzo/pkg/domain"
	"github.com/aretw0/lienzo/pkg/ports"
	"github.com/aretw0/lienzo/pkg/validate"
)

func (a *app) draftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Save, load and publish drafts in the configured store",
		Long: `Works against the store selected by store.backend in the configuration
(memory, file, redis or postgres). The memory backend forgets everything
when the command exits and is only useful for dry runs.`,
	}

	var actor, notes string
	save := &cobra.Command{
		Use:   "save DOCUMENT FILE",
		Short: "Repair, normalize and store a canvas as the draft of DOCUMENT",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := docio.LoadCanvas(args[1])
			if err != nil {
				return err
			}
			b, err := openStore(ctx, a.cfg.Store, a.logger)
			if err != nil {
				return err
			}
			defer b.close()

			_, err = b.store.GetCurrentDraft(ctx, args[0])
			if errors.Is(err, domain.ErrDraftNotFound) {
				err = b.store.PutDraft(ctx, &ports.Draft{ID: uuid.NewString(), DocumentID: args[0], UpdatedBy: actor})
			}
			if err != nil {
				return err
			}

			res, err := a.engine(lienzo.WithStore(b.store)).Save(ctx, args[0], doc, actor)
			if err != nil {
				return err
			}
			if res.Conflict {
				return fmt.Errorf("draft of %q changed while saving; reload and try again", args[0])
			}
			printIssues(a.stdout, validate.Result{OK: len(res.Errors) == 0, Errors: res.Errors, Warnings: res.Warnings})
			fmt.Fprintf(a.stdout, "stored revision %d\n", res.Revision)
			return nil
		},
	}
	save.Flags().StringVar(&actor, "actor", "cli", "Author recorded with the change")

	load := &cobra.Command{
		Use:   "load DOCUMENT",
		Short: "Print the effective canvas of the draft of DOCUMENT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := openStore(ctx, a.cfg.Store, a.logger)
			if err != nil {
				return err
			}
			defer b.close()

			res, err := a.engine(lienzo.WithStore(b.store)).Load(ctx, args[0])
			if err != nil {
				return err
			}
			if res.Derived {
				a.logger.Info("canvas derived from the stored definition", "document_id", args[0])
			}
			return a.write(res.Canvas, a.format(""))
		},
	}

	publish := &cobra.Command{
		Use:   "publish DOCUMENT",
		Short: "Compile the draft of DOCUMENT into the next immutable version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := openStore(ctx, a.cfg.Store, a.logger)
			if err != nil {
				return err
			}
			defer b.close()

			eng := a.engine(lienzo.WithStore(b.store), lienzo.WithLocker(b.locker))
			res, err := eng.Publish(ctx, args[0], lienzo.PublishRequest{Actor: actor, Notes: notes})
			var failed *lienzo.ValidationFailedError
			if errors.As(err, &failed) {
				printIssues(a.stdout, validate.Result{Errors: failed.Issues})
				return errInvalid
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "published %s version %d (%d steps)\n",
				args[0], res.Version.Number, res.Version.Definition.Steps.Len())
			return nil
		},
	}
	publish.Flags().StringVar(&actor, "actor", "cli", "Author recorded with the version")
	publish.Flags().StringVar(&notes, "notes", "", "Release notes of the version")

	cmd.AddCommand(save, load, publish)
	return cmd
}
