package commands

import (
	"github.com/spf13/cobra"
)

// NewUnlockCommand creates the unlock command.
func NewUnlockCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "unlock",
		Short: "Release a schema lock left behind by a crashed process",
		Long: `Clear the lock row of the schemaHistory table.

A process that dies while upgrading leaves the lock held and every other
process waits forever. Only run this once the holder is known to be gone.`,
		Example: `  leapdb status
  leapdb unlock --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd, false)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			lock, err := cmdCtx.Manager.LockHolder(ctx)
			if err != nil {
				return err
			}
			if !lock.Held {
				cmdCtx.Renderer.Println("Schema lock is not held")
				return nil
			}
			if !force {
				cmdCtx.Renderer.Warn("lock held by %s: %s", lock.Process, lock.Description)
				cmdCtx.Renderer.Println("Pass --force to release it")
				return nil
			}
			if err := cmdCtx.Manager.ForceReleaseLock(ctx); err != nil {
				return err
			}
			cmdCtx.Renderer.Printf("Released schema lock held by %s\n", lock.Process)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Release the lock even though a process holds it")
	return cmd
}
