// Package auth holds the session commands: logging in and out, inspecting
// and refreshing the stored credentials.
package auth

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mshando/marketplace-client/internal/business"
	"github.com/mshando/marketplace-client/internal/cmdutils"
	"github.com/mshando/marketplace-client/pkg/marketplace"
)

// PasswordEnv is read when no --password flag is given.
const PasswordEnv = "MSHANDO_PASSWORD"

type loginResult struct {
	Message string            `json:"message"`
	User    *marketplace.User `json:"user,omitempty"`
}

func Cmds(buildInfo string) []*cobra.Command {
	return []*cobra.Command{
		loginCmd(buildInfo),
		registerCmd(buildInfo),
		logoutCmd(buildInfo),
		whoamiCmd(buildInfo),
		statusCmd(buildInfo),
		refreshCmd(buildInfo),
		validateCmd(buildInfo),
		verifyEmailCmd(buildInfo),
		resendVerificationCmd(buildInfo),
	}
}

func loginCmd(buildInfo string) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and store the session credentials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv(PasswordEnv)
			}
			if password == "" {
				return errors.New("a password is required, use --password or " + PasswordEnv)
			}

			return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (loginResult, error) {
				resp, err := svc.Auth.Login(ctx, marketplace.LoginRequest{Username: args[0], Password: password})
				if err != nil {
					return loginResult{}, err
				}

				return loginResult{Message: "logged in as " + args[0], User: resp.User}, nil
			})
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")

	return cmd
}

func registerCmd(buildInfo string) *cobra.Command {
	var req marketplace.RegisterRequest
	var role string

	cmd := &cobra.Command{
		Use:   "register <username> <email>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Username, req.Email = args[0], args[1]
			req.Role = marketplace.Role(role)
			if req.Password == "" {
				req.Password = os.Getenv(PasswordEnv)
			}
			if req.Password == "" {
				return errors.New("a password is required, use --password or " + PasswordEnv)
			}

			return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (marketplace.AuthResponse, error) {
				resp, err := svc.Auth.Register(ctx, req)
				resp.Token, resp.RefreshToken = "", ""

				return resp, err
			})
		},
	}
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "account password")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&req.PhoneNumber, "phone", "", "phone number")
	cmd.Flags().StringVar(&role, "role", string(marketplace.RoleCustomer), "CUSTOMER or TASKER")

	return cmd
}

func logoutCmd(buildInfo string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (cmdutils.Done, error) {
				return cmdutils.Done{Message: "logged out"}, svc.Auth.Logout(ctx)
			})
		},
	}
}

func whoamiCmd(buildInfo string) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the profile of the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (marketplace.User, error) {
				return svc.Users.Me(ctx)
			})
		},
	}
}

func statusCmd(buildInfo string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Describe the stored session without contacting the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (business.SessionInfo, error) {
				return svc.Session(ctx, time.Now())
			})
		},
	}
}

func refreshCmd(buildInfo string) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the refresh token for a new access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (business.SessionInfo, error) {
				if _, err := svc.Refresher.Refresh(ctx); err != nil {
					return business.SessionInfo{}, err
				}

				return svc.Session(ctx, time.Now())
			})
		},
	}
}

func validateCmd(buildInfo string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Ask the backend whether the stored access token is valid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (marketplace.TokenValidation, error) {
				return svc.Auth.ValidateToken(ctx)
			})
		},
	}
}

func verifyEmailCmd(buildInfo string) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-email <token>",
		Short: "Confirm an email address with the emailed token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (marketplace.APIResponse, error) {
				return svc.Auth.VerifyEmail(ctx, args[0])
			})
		},
	}
}

func resendVerificationCmd(buildInfo string) *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "resend-verification <email>",
		Short: "Send the verification email again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if status {
				return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (marketplace.VerificationStatus, error) {
					return svc.Auth.VerificationStatus(ctx, args[0])
				})
			}

			return cmdutils.RunWithServices(cmd, buildInfo, func(ctx context.Context, svc *business.Services) (marketplace.APIResponse, error) {
				return svc.Auth.ResendVerification(ctx, args[0])
			})
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "only show the verification status")

	return cmd
}
