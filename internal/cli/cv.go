package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/rpggio/folio/internal/apiclient"
	"github.com/rpggio/folio/internal/notify"
	"github.com/spf13/cobra"
)

func newCVCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cv",
		Short: "Manage the downloadable CV",
	}
	cmd.AddCommand(newCVStatusCmd(app))
	cmd.AddCommand(newCVUploadCmd(app))
	cmd.AddCommand(newCVDownloadCmd(app))
	cmd.AddCommand(newCVRmCmd(app))
	return cmd
}

func newCVStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether a CV is stored",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.client(true)
			if err != nil {
				return err
			}
			st, err := client.CVStatus(cmd.Context())
			if err != nil {
				return err
			}
			if st.Exists {
				app.ok("A CV is stored")
			} else {
				app.println("%s", notify.MutedStyle.Render("No CV stored"))
			}
			return nil
		},
	}
}

func newCVUploadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file.pdf>",
		Short: "Upload a PDF, replacing the stored CV",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading cv: %w", err)
			}
			if err := apiclient.CheckPDF(args[0], content); err != nil {
				return err
			}
			client, err := app.client(true)
			if err != nil {
				return err
			}
			if err := client.UploadCV(cmd.Context(), args[0], content); err != nil {
				return err
			}
			app.ok(fmt.Sprintf("Uploaded %s (%s)", filepath.Base(args[0]), humanize.Bytes(uint64(len(content)))))
			return nil
		},
	}
}

func newCVDownloadCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Save the stored CV",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.client(true)
			if err != nil {
				return err
			}
			if out == "-" {
				_, err := client.DownloadCV(cmd.Context(), app.io.Out)
				return err
			}

			// write beside the target so a failed download leaves no partial file
			tmp, err := os.CreateTemp(filepath.Dir(out), ".cv-*.pdf")
			if err != nil {
				return fmt.Errorf("saving cv: %w", err)
			}
			defer os.Remove(tmp.Name())
			n, err := client.DownloadCV(cmd.Context(), tmp)
			if cerr := tmp.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			if err := os.Rename(tmp.Name(), out); err != nil {
				return fmt.Errorf("saving cv: %w", err)
			}
			app.ok(fmt.Sprintf("Saved %s (%s)", out, humanize.Bytes(uint64(n))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "cv.pdf", "Output file, or - for stdout")
	return cmd
}

func newCVRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm",
		Aliases: []string{"delete"},
		Short:   "Delete the stored CV",
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.client(true)
			if err != nil {
				return err
			}
			if err := client.DeleteCV(cmd.Context()); err != nil {
				return err
			}
			app.ok("CV deleted")
			return nil
		},
	}
}
