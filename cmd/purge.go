package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"stocktake/core/config"
	"stocktake/core/database"
	"stocktake/core/logger"
	"stocktake/feature/counting"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var purgeYes bool

// purgeCmd wipes all count sessions and their scan lines.
var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete ALL count sessions and scan lines",
	Long: `Deletes every count session together with its scan lines. The local
catalog and the snapshot archive are left untouched.

Asks for confirmation unless --yes is given.`,
	RunE: runPurge,
}

func init() {
	purgeCmd.Flags().BoolVar(&purgeYes, "yes", false, "Auto-confirm (non-interactive)")
	RootCmd.AddCommand(purgeCmd)
}

func runPurge(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	if !purgeYes {
		fmt.Print("This deletes ALL count sessions and scan lines. Continue? [y/N]: ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	store := counting.NewStore(db)
	sessions, lines, err := store.PurgeAll(ctx)
	if err != nil {
		return err
	}

	l.Info("Purge finished",
		zap.Int64("sessions_removed", sessions),
		zap.Int64("scan_lines_removed", lines),
	)
	return nil
}
