package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"netwebquiz/internal/domain"
	"netwebquiz/internal/lobby"
)

// NewLobbyCmd shows who is online and which matches run live, and waits for
// incoming challenge invitations. With --invite it sends one instead.
func NewLobbyCmd() *cobra.Command {
	var inviteUser, theme string
	var count int
	cmd := &cobra.Command{
		Use:   "lobby",
		Short: "Watch the lobby: presence, live matches, invitations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			conn, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()

			started := make(chan string, 1)
			l := lobby.Open(conn, a.log, lobby.Hooks{
				OnInvite: func(inv domain.ChallengeInvite) {
					fmt.Printf("%s %s challenges you: %s, %d questions (accept with: netwebquiz challenge %s)\n",
						color.YellowString("invite:"), inv.FromUsername, inv.Theme, inv.Questions, inv.RoomID)
				},
				OnMatchStarted: func(roomID string) { started <- roomID },
				OnDeclined: func(roomID string) {
					fmt.Println(color.YellowString("challenge declined"))
				},
				OnMatchError: func(msg string) {
					fmt.Println(color.RedString("match error: %s", msg))
				},
				OnNotification: func(n domain.Notification) {
					fmt.Printf("%s %s\n", color.HiBlueString("*"), n.Message)
				},
			})
			defer l.Close()

			if inviteUser != "" {
				l.SendChallenge(inviteUser, theme, count)
				fmt.Printf("challenge sent to %s (%s, %d questions), waiting...\n", inviteUser, theme, count)
				select {
				case roomID := <-started:
					fmt.Printf("match started! join with: netwebquiz challenge %s\n", roomID)
					return nil
				case <-cmd.Context().Done():
					return nil
				}
			}

			// Give the server a beat to answer the list requests.
			time.Sleep(time.Second)
			printLobby(l)
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(stop)
			select {
			case roomID := <-started:
				fmt.Printf("match started! join with: netwebquiz challenge %s\n", roomID)
			case <-stop:
			case <-cmd.Context().Done():
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&inviteUser, "invite", "", "user id to challenge")
	cmd.Flags().StringVarP(&theme, "theme", "t", "OSI", "challenge theme")
	cmd.Flags().IntVarP(&count, "count", "n", 10, "challenge question count")
	return cmd
}

func printLobby(l *lobby.Lobby) {
	fmt.Println(color.HiBlueString("online:"))
	for _, u := range l.Online() {
		marker := ""
		if u.InMatch {
			marker = " (in match)"
		}
		fmt.Printf("  %s level %d%s\n", u.Username, u.Level, marker)
	}
	fmt.Println(color.HiBlueString("live matches:"))
	for _, m := range l.Matches() {
		fmt.Printf("  %s: %v on %s (spectate with: netwebquiz challenge %s)\n", m.RoomID, m.Players, m.Theme, m.RoomID)
	}
	fmt.Println("waiting for invitations, ctrl-c to quit")
}
