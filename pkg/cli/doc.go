/*
Package cli provides command-line utilities shared by the scribe command.

Output Formatting:

Command results can be rendered as plain text or JSON:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx := cli.SetupSignalHandler()
	// ctx is cancelled when a shutdown signal arrives

or, when the select lives in the command itself:

	sigChan := cli.WaitForShutdown()
	select {
	case sig := <-sigChan:
		// shut down
	case err := <-errChan:
		// server failed
	}

Errors:

ConfigError and CommandError give command failures a stable shape for
callers that inspect them with errors.As.
*/
package cli
