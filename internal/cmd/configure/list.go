package configure

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/saucelabs/zipdeploy/internal/credentials"
	"github.com/saucelabs/zipdeploy/internal/msg"
)

// ListCommand creates the `configure list` command.
func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use: "list",
		Aliases: []string{
			"ls",
		},
		Short: "Showing the current credentials",
		Run: func(cmd *cobra.Command, args []string) {
			creds := credentials.Get()
			printCreds(os.Stdout, creds)
		},
	}

	return cmd
}

func printCreds(w io.Writer, creds credentials.Credentials) {
	fmt.Fprintln(w)

	if !creds.IsValid() {
		color.New(color.FgRed).Fprintf(w, "%s\n\n", msg.EmptyCredentials)
		fmt.Fprintln(w, msg.CredentialsHelp)
		return
	}

	labelStyle := color.New(color.Bold)
	valueStyle := color.New(color.FgBlue)

	fmt.Fprintf(w, "Currently configured credentials:\n")
	fmt.Fprintf(w, "\t%s %s\n", labelStyle.Sprint("  Username:"), valueStyle.Sprint(creds.Username))
	fmt.Fprintf(w, "\t%s %s\n", labelStyle.Sprint("  Password:"), valueStyle.Sprint(mask(creds.Password)))
	fmt.Fprintf(w, "\nCollected from: %s\n", creds.Source)
	fmt.Fprintln(w)
}

// mask hides all but the last four characters of s.
func mask(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
