package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sensoringest"
	"sensoringest/internal/service"
)

func (a *app) certifyCommand() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "certify FILE...",
		Short: "Certify datalogger files and write certified workbooks",
		Long: `Certify each file on its own and write <name>.xlsx for every certified file.
Files with conflicting duplicate records are reported and not written; files that
already carry QA notes are left alone. An input workbook is never overwritten.`,
		Example: `  sensoringest certify downloads/*.dat --out certified/`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCertify(cmd, args, outDir)
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default next to each input)")
	return cmd
}

func (a *app) runCertify(cmd *cobra.Command, paths []string, outDir string) error {
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return err
		}
	}
	uploads := make([]service.Upload, len(paths))
	for i, p := range paths {
		up, err := readUpload(p)
		if err != nil {
			return err
		}
		uploads[i] = up
	}

	rt, err := a.wire()
	if err != nil {
		return err
	}
	defer rt.close(a.log)

	out := cmd.OutOrStdout()
	items, err := rt.services.CertifyBatch(cmd.Context(), uploads, 0, func(it service.BatchItem) {
		fmt.Fprintf(out, "%s: %s\n", it.FileName, summary(it))
	})
	if err != nil {
		return err
	}

	failed := 0
	for _, it := range items {
		if it.Err != nil {
			failed++
			continue
		}
		if it.Certificate.Outcome != sensoringest.OutcomeCertified {
			continue
		}
		dest := workbookPath(paths[it.Index], outDir)
		if samePath(dest, paths[it.Index]) {
			failed++
			fmt.Fprintf(out, "%s: not written, %s would overwrite the input; pass --out\n", it.FileName, dest)
			continue
		}
		if err := a.writeCertificate(rt, *it.Certificate, dest); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", dest)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files not certified", failed, len(items))
	}
	return nil
}

func (a *app) appendCommand() *cobra.Command {
	var outFile string
	cmd := &cobra.Command{
		Use:   "append BASE NEW",
		Short: "Append a new download to a certified workbook",
		Long: `Certify NEW if it has not been certified, join it to BASE and check the
seam between them. Column changes between the files are reported as notes.`,
		Example: `  sensoringest append certified/site.xlsx downloads/site_june.dat --out certified/site_june.xlsx`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAppend(cmd, args[0], args[1], outFile)
		},
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output workbook (default NEW with an .xlsx extension)")
	return cmd
}

func (a *app) runAppend(cmd *cobra.Command, basePath, newPath, outFile string) error {
	base, err := readUpload(basePath)
	if err != nil {
		return err
	}
	newer, err := readUpload(newPath)
	if err != nil {
		return err
	}
	if outFile == "" {
		outFile = workbookPath(newPath, "")
	}
	for _, in := range []string{basePath, newPath} {
		if samePath(outFile, in) {
			return fmt.Errorf("%s would overwrite the input; pass --out", outFile)
		}
	}

	rt, err := a.wire()
	if err != nil {
		return err
	}
	defer rt.close(a.log)

	cert, err := rt.services.Append(cmd.Context(), base, newer, 0)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", newer.Name, cert.Outcome)
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", newer.Name, summary(service.BatchItem{Certificate: &cert}))
	if err := a.writeCertificate(rt, cert, outFile); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outFile)
	return nil
}

func (a *app) writeCertificate(rt *runtime, cert service.Certificate, dest string) error {
	body, err := rt.services.Encode(cert)
	if err != nil {
		return fmt.Errorf("encode %s: %w", cert.FileName, err)
	}
	if err := os.WriteFile(dest, body, 0o644); err != nil {
		return err
	}
	a.log.Infow("workbook_written", "file", cert.FileName, "path", dest, "run_id", cert.RunID)
	return nil
}

// summary renders one line of the progress report.
func summary(it service.BatchItem) string {
	if it.Err != nil {
		outcome := sensoringest.OutcomeRejected
		if it.Certificate != nil && it.Certificate.Outcome != "" {
			outcome = it.Certificate.Outcome
		}
		return fmt.Sprintf("%s: %v", outcome, it.Err)
	}
	c := it.Certificate
	return fmt.Sprintf("%s (%d samples, %d notes)", c.Outcome, c.Samples, c.Notes.Len())
}
