package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	pkgdb "charmi-backend/pkg/database"
	"charmi-backend/pkg/jwt"
)

var (
	// Token flags
	tokenUser   string
	tokenEmail  string
	tokenTTL    time.Duration
	tokenCreate bool
)

// tokenCmd mints an access token signed with JWT_SECRET. There is no login flow in this service.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for a user id",
	Long: `Mint a bearer token for a user id.

Address and order writes require the user to exist in the users table.
Pass --create to insert (or restore) that row before the token is printed.`,
	Example: `  charmictl token --user 5f0c2c8e-7d55-4a57-9d43-5d2f0c1a7b11 --create
  curl -H "Authorization: Bearer $(charmictl token --user ...)" localhost:8080/api/v1/orders`,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := uuid.Parse(tokenUser)
		if err != nil {
			return fmt.Errorf("invalid --user %q: %w", tokenUser, err)
		}

		if tokenCreate {
			db, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			if err := ensureUser(cmd.Context(), db.Pool, userID, tokenEmail); err != nil {
				return err
			}
		}

		ttl := tokenTTL
		if ttl == 0 {
			ttl = cfg.JWT.AccessTokenExpiry
		}

		token, err := jwt.NewManager(cfg.JWT.Secret, ttl).GenerateAccessToken(userID.String(), tokenEmail, "user")
		if err != nil {
			return fmt.Errorf("sign token: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

const ensureUserSQL = `
	INSERT INTO users (id, email)
	VALUES ($1, $2)
	ON CONFLICT (id) DO UPDATE SET deleted_at = NULL, updated_at = NOW()
`

// ensureUser makes userID an active user. Without an email the row gets a placeholder address.
func ensureUser(ctx context.Context, db pkgdb.DBTX, userID uuid.UUID, email string) error {
	if email == "" {
		email = userID.String() + "@users.charmi.local"
	}
	if _, err := db.Exec(ctx, ensureUserSQL, userID, email); err != nil {
		return fmt.Errorf("create user %s: %w", userID, err)
	}
	return nil
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user id (uuid) the token is issued for")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "optional email claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (defaults to JWT_ACCESS_EXPIRY)")
	tokenCmd.Flags().BoolVar(&tokenCreate, "create", false, "insert the user row if it does not exist")
	_ = tokenCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(tokenCmd)
}
