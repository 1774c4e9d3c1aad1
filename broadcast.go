package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/swasthya-bot/server/internal/agent/broadcast"
	"github.com/swasthya-bot/server/internal/agent/subscribers"
	"github.com/swasthya-bot/server/internal/transport/twilio"
	logx "github.com/swasthya-bot/server/pkg/logger"
)

var assumeYes bool

var broadcastCmd = &cobra.Command{
	Use:   "broadcast",
	Short: "Send a message read from stdin to every subscriber",
	Long: `Reads the broadcast message from stdin until EOF (Ctrl+D) or a line holding
only ".", shows a preview with the number of recipients and asks for
confirmation before sending.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStores(cmd.Context(), config)
		if err != nil {
			return err
		}
		defer st.Close()

		sender, err := twilio.NewSender(config.Twilio)
		if err != nil {
			return err
		}
		b := broadcast.NewBroadcaster(subscribers.NewRegistry(st.subscribers), sender, config.HTTP.BroadcastConcurrency)
		return runBroadcast(cmd.Context(), b, cmd.InOrStdin(), cmd.OutOrStdout(), assumeYes)
	},
}

func init() {
	broadcastCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "send without asking for confirmation")
}

type operatorBroadcaster interface {
	Recipients(ctx context.Context) ([]string, error)
	Send(ctx context.Context, message string) (broadcast.Report, error)
}

func runBroadcast(ctx context.Context, b operatorBroadcaster, in io.Reader, out io.Writer, yes bool) error {
	reader := bufio.NewReader(in)

	fmt.Fprintln(out, "Enter your broadcast message. Finish with a line holding only \".\" or press Ctrl+D.")
	message, err := readMessage(reader)
	if err != nil {
		return err
	}
	if message == "" {
		fmt.Fprintln(out, "Message is empty. Aborting broadcast.")
		return nil
	}

	recipients, err := b.Recipients(ctx)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		fmt.Fprintln(out, "No subscribers found. Nothing to send.")
		return nil
	}

	fmt.Fprintf(out, "\n--- PREVIEW ---\n%s\n---------------\n", message)
	fmt.Fprintf(out, "This message will be sent to %d subscriber(s).\n", len(recipients))

	if !yes {
		fmt.Fprint(out, "Are you sure you want to send? (y/n): ")
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Fprintln(out, "Broadcast cancelled.")
			return nil
		}
	}

	report, err := b.Send(ctx, message)
	if err != nil {
		return err
	}
	for _, f := range report.Failures {
		fmt.Fprintf(out, "Failed to send to %s: %s\n", f.Recipient, f.Error)
	}
	fmt.Fprintf(out, "\nBroadcast %s complete. Sent: %d, Failed: %d\n", report.ID, report.Sent, report.Failed)
	logx.Info().Str("broadcast_id", report.ID).Int("sent", report.Sent).Int("failed", report.Failed).Msg("operator broadcast")
	return nil
}

// readMessage consumes the message up to EOF or a line holding only ".".
func readMessage(r *bufio.Reader) (string, error) {
	var lines []string
	for {
		line, err := r.ReadString('\n')
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "." && err == nil {
			break
		}
		if line != "" {
			lines = append(lines, trimmed)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
