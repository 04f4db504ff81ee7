package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"netwebquiz/internal/chat"
	"netwebquiz/internal/domain"
)

// NewLeaderboardCmd prints the global ranking.
func NewLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the global leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			rows, err := a.client.Leaderboard(cmd.Context())
			if err != nil {
				return err
			}
			for _, row := range rows {
				fmt.Printf("%3d. %-20s level %-3d %s\n", row.Rank, row.Username, row.Level,
					color.CyanString("%d", row.Score))
			}
			return nil
		},
	}
}

// NewNewsCmd prints the announcement feed.
func NewNewsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "news",
		Short: "Show announcements",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			items, err := a.client.News(cmd.Context())
			if err != nil {
				return err
			}
			for _, item := range items {
				fmt.Printf("%s %s\n%s\n\n", color.HiBlueString(item.Title),
					item.CreatedAt.Format("2006-01-02"), item.Content)
			}
			return nil
		},
	}
}

// NewProfileCmd shows the logged-in user's profile, or another user's public
// profile when an id is given.
func NewProfileCmd() *cobra.Command {
	var bio string
	var imagePath string
	cmd := &cobra.Command{
		Use:   "profile [user-id]",
		Short: "Show or edit a profile",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			if imagePath != "" {
				f, err := os.Open(imagePath)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := a.client.UploadProfileImage(cmd.Context(), f.Name(), f); err != nil {
					return err
				}
				fmt.Println("profile picture updated")
			}

			var profile domain.Profile
			if len(args) == 1 {
				profile, err = a.client.PublicProfile(cmd.Context(), args[0])
			} else {
				profile, err = a.client.Profile(cmd.Context())
			}
			if err != nil {
				return err
			}

			if bio != "" && len(args) == 0 {
				profile.Bio = bio
				if err := a.client.UpdateProfile(cmd.Context(), profile); err != nil {
					return err
				}
			}

			fmt.Printf("%s (level %d)\n", color.CyanString(profile.Username), profile.Level)
			if profile.Bio != "" {
				fmt.Println(profile.Bio)
			}
			fmt.Printf("played %d, won %d, total score %d\n", profile.GamesPlayed, profile.GamesWon, profile.TotalScore)
			return nil
		},
	}
	cmd.Flags().StringVar(&bio, "bio", "", "update the profile bio")
	cmd.Flags().StringVar(&imagePath, "image", "", "upload a profile picture")
	return cmd
}

// NewCommentsCmd lists the comments on a finished match, or posts one.
func NewCommentsCmd() *cobra.Command {
	var post, del string
	cmd := &cobra.Command{
		Use:   "comments <room-id>",
		Short: "Show or post comments on a match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			roomID := args[0]

			if del != "" {
				if err := a.client.DeleteMatchComment(cmd.Context(), roomID, del); err != nil {
					return err
				}
				fmt.Println("comment deleted")
				return nil
			}
			if post != "" {
				comment, err := a.client.AddMatchComment(cmd.Context(), roomID, post)
				if err != nil {
					return err
				}
				fmt.Printf("posted %s\n", comment.ID)
				return nil
			}

			comments, err := a.client.MatchComments(cmd.Context(), roomID)
			if err != nil {
				return err
			}
			for _, comment := range comments {
				fmt.Printf("[%s] %s: %s (%s)\n", comment.CreatedAt.Format("2006-01-02 15:04"),
					color.CyanString(comment.Username), comment.Content, comment.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&post, "post", "", "comment to post")
	cmd.Flags().StringVar(&del, "delete", "", "comment id to delete")
	return cmd
}

// NewSettingsCmd shows or updates the server-side preferences.
func NewSettingsCmd() *cobra.Command {
	var notifications, language string
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or update preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			settings, err := a.client.Settings(cmd.Context())
			if err != nil {
				return err
			}

			changed := false
			if notifications != "" {
				settings.Notifications = notifications == "on"
				changed = true
			}
			if language != "" {
				settings.Language = language
				changed = true
			}
			if changed {
				if err := a.client.UpdateSettings(cmd.Context(), settings); err != nil {
					return err
				}
			}

			state := "off"
			if settings.Notifications {
				state = "on"
			}
			fmt.Printf("notifications: %s\n", state)
			if settings.Language != "" {
				fmt.Printf("language: %s\n", settings.Language)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&notifications, "notifications", "", "on or off")
	cmd.Flags().StringVar(&language, "language", "", "preferred language")
	return cmd
}

// NewChatCmd joins the public chat room interactively.
func NewChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Join the public chat",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			user, err := a.user()
			if err != nil {
				return err
			}
			conn, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()

			room, err := chat.Join(cmd.Context(), conn, a.client, user, a.log,
				chat.WithMessageFunc(func(msg domain.ChatMessage) {
					printChatMessage(msg, user.ID)
				}),
				chat.WithErrorFunc(func(msg string) {
					fmt.Println(color.RedString("rejected: %s", msg))
				}))
			if err != nil {
				return err
			}
			defer room.Close()

			for _, msg := range room.Messages() {
				printChatMessage(msg, user.ID)
			}
			fmt.Println("type to chat, /del <id> to delete, ctrl-c to quit")

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(stop)
			input := readLines(os.Stdin)
			for {
				select {
				case line, ok := <-input:
					if !ok {
						return nil
					}
					line = strings.TrimSpace(line)
					switch {
					case line == "":
					case strings.HasPrefix(line, "/del "):
						room.Delete(strings.TrimSpace(strings.TrimPrefix(line, "/del ")))
					default:
						room.Send(line)
					}
				case <-stop:
					return nil
				case <-cmd.Context().Done():
					return nil
				}
			}
		},
	}
}

func printChatMessage(msg domain.ChatMessage, selfID string) {
	name := msg.Username
	if msg.UserID == selfID {
		name = color.CyanString(name)
	}
	fmt.Printf("[%s] %s: %s\n", msg.CreatedAt.Format("15:04"), name, msg.Content)
}
