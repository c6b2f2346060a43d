package tokenrefresh

import (
	"github.com/spf13/cobra"

	"github.com/mshando/marketplace-client/internal/business"
	"github.com/mshando/marketplace-client/internal/cmdutils"
)

func Cmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"token-refresher",
		"Mshando token refresh job",
		"Mshando token refresh job keeps the stored session alive by refreshing the access token before it expires",
		buildInfo,
		cmdutils.RunAsService,
		business.TokenRefresherMain,
	)
}
