package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/redmonkez12/jwt-auth-api/internal/auth"
	"github.com/redmonkez12/jwt-auth-api/internal/config"
	"github.com/redmonkez12/jwt-auth-api/internal/database"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "accountctl",
		Short:         "Operator tooling for the JWT auth API",
		Long:          "Runs schema migrations and inspects tokens and password digests using the same environment configuration as the API server.",
		SilenceUsage:  true,
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE:  runMigrateUp,
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE:  runMigrateVersion,
		},
	)

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Issue or inspect session tokens",
	}

	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a session token for an account",
		Args:  cobra.NoArgs,
		RunE:  runTokenIssue,
	}
	issueCmd.Flags().String("user-id", "", "Account UUID")
	issueCmd.Flags().String("email", "", "Account email")
	_ = issueCmd.MarkFlagRequired("user-id")
	_ = issueCmd.MarkFlagRequired("email")

	inspectCmd := &cobra.Command{
		Use:   "inspect TOKEN",
		Short: "Verify a token and print its claims",
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenInspect,
	}

	tokenCmd.AddCommand(issueCmd, inspectCmd)

	hashCmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Hash a password with the configured hasher (reads stdin when --password is empty)",
		Args:  cobra.NoArgs,
		RunE:  runHashPassword,
	}
	hashCmd.Flags().String("password", "", "Plaintext password")

	rootCmd.AddCommand(migrateCmd, tokenCmd, hashCmd)
	return rootCmd
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Open(cfg.Database.ConnectionString(), database.PoolConfig{MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(cmd.Context(), db); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
	return nil
}

func runMigrateVersion(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Open(cfg.Database.ConnectionString(), database.PoolConfig{MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	version, err := database.Version(ctx, db)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
	return nil
}

func runTokenIssue(cmd *cobra.Command, args []string) error {
	rawID, _ := cmd.Flags().GetString("user-id")
	email, _ := cmd.Flags().GetString("email")

	userID, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid --user-id: %w", err)
	}
	if email == "" {
		return errors.New("--email must not be empty")
	}

	tokens, err := loadTokenService()
	if err != nil {
		return err
	}

	token, err := tokens.CreateToken(userID, email)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

func runTokenInspect(cmd *cobra.Command, args []string) error {
	tokens, err := loadTokenService()
	if err != nil {
		return err
	}

	claims, err := tokens.VerifyToken(strings.TrimSpace(args[0]))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"user_id":    claims.UserID,
		"email":      claims.Email,
		"issued_at":  claims.IssuedAt.UTC(),
		"expires_at": claims.ExpiresAt.UTC(),
	})
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		line, err := readLine(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		password = line
	}
	if password == "" {
		return errors.New("password must not be empty")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	hasher, err := auth.NewPasswordHasher(cfg.Auth)
	if err != nil {
		return err
	}

	digest, err := hasher.Hash(password)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), digest)
	return nil
}

func loadTokenService() (auth.TokenService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return auth.NewTokenService(cfg.Auth)
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
