// Package mod provides the moderation commands. Each command lives in its
// own file; all of them are privileged.
package mod

import (
	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
)

// Commands returns every moderation command
func Commands(svc *shared.Services) []*discord.Command {
	return []*discord.Command{
		createBanCommand(svc),
		createKickCommand(svc),
		createMuteCommand(svc),
		createUnmuteCommand(svc),
		createWarnCommand(svc),
		createWarningsCommand(svc),
		createClearWarningsCommand(svc),
		createClearCommand(svc),
		createLockCommand(svc, lockChannel),
		createLockCommand(svc, unlockChannel),
		createRoleCommand(svc),
		createAuditCommand(),
		createSayCommand(),
	}
}
