package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"netwebquiz/internal/domain"
)

// NewAdminCmd groups the content-management surface: question and news CRUD.
// The server enforces the admin role; the client only checks it to fail fast.
func NewAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage questions and news (admin only)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			user, err := a.user()
			if err != nil {
				return err
			}
			if !user.IsAdmin() {
				return fmt.Errorf("admin role required")
			}
			return nil
		},
	}
	cmd.AddCommand(newQuestionListCmd())
	cmd.AddCommand(newQuestionAddCmd())
	cmd.AddCommand(newQuestionUpdateCmd())
	cmd.AddCommand(newQuestionDeleteCmd())
	cmd.AddCommand(newNewsPublishCmd())
	cmd.AddCommand(newNewsDeleteCmd())
	cmd.AddCommand(newChatDeleteCmd())
	return cmd
}

// newQuestionListCmd dumps every question of a theme, correct answers
// included, for content review.
func newQuestionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "question-list <theme>",
		Short: "List a theme's questions with answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			questions, err := a.client.ThemeQuestions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, q := range questions {
				fmt.Printf("#%d [%s] %s\n", q.ID, q.Type, q.Question)
				for i, opt := range q.Options {
					marker := " "
					if i == q.Correct {
						marker = "*"
					}
					fmt.Printf("  %s %s\n", marker, opt)
				}
			}
			return nil
		},
	}
}

func questionFlags(cmd *cobra.Command, q *domain.Question) {
	cmd.Flags().StringVar((*string)(&q.Type), "type", string(domain.QuestionQCM), "question type: QCM, VF or Libre")
	cmd.Flags().StringVar(&q.Question, "text", "", "question text")
	cmd.Flags().StringArrayVar(&q.Options, "option", nil, "answer option (repeatable)")
	cmd.Flags().IntVar(&q.Correct, "correct", 0, "index of the correct option")
	cmd.Flags().StringVar(&q.Explanation, "explanation", "", "shown after answering")
}

func newQuestionAddCmd() *cobra.Command {
	var q domain.Question
	var theme string
	cmd := &cobra.Command{
		Use:   "question-add",
		Short: "Add a question to a theme",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if theme == "" || q.Question == "" || len(q.Options) < 2 {
				return fmt.Errorf("need --theme, --text and at least two --option values")
			}
			if q.Correct < 0 || q.Correct >= len(q.Options) {
				return fmt.Errorf("--correct out of range")
			}
			created, err := a.client.CreateQuestion(cmd.Context(), theme, q)
			if err != nil {
				return err
			}
			fmt.Printf("created question %d in %s\n", created.ID, theme)
			return nil
		},
	}
	cmd.Flags().StringVarP(&theme, "theme", "t", "", "target theme")
	questionFlags(cmd, &q)
	return cmd
}

func newQuestionUpdateCmd() *cobra.Command {
	var q domain.Question
	cmd := &cobra.Command{
		Use:   "question-update <id>",
		Short: "Replace a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("bad question id %q", args[0])
			}
			q.ID = id
			if err := a.client.UpdateQuestion(cmd.Context(), id, q); err != nil {
				return err
			}
			fmt.Printf("updated question %d\n", id)
			return nil
		},
	}
	questionFlags(cmd, &q)
	return cmd
}

func newQuestionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "question-delete <id>",
		Short: "Delete a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("bad question id %q", args[0])
			}
			if err := a.client.DeleteQuestion(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("deleted question %d\n", id)
			return nil
		},
	}
}

func newNewsPublishCmd() *cobra.Command {
	var item domain.NewsItem
	cmd := &cobra.Command{
		Use:   "news-publish",
		Short: "Publish or update an announcement",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if item.Title == "" || item.Content == "" {
				return fmt.Errorf("need --title and --content")
			}
			if item.ID != "" {
				if err := a.client.UpdateNews(cmd.Context(), item); err != nil {
					return err
				}
				fmt.Printf("updated news %s\n", item.ID)
				return nil
			}
			created, err := a.client.CreateNews(cmd.Context(), item)
			if err != nil {
				return err
			}
			fmt.Printf("published news %s\n", created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&item.ID, "id", "", "existing announcement to update")
	cmd.Flags().StringVar(&item.Title, "title", "", "announcement title")
	cmd.Flags().StringVar(&item.Content, "content", "", "announcement body")
	return cmd
}

// newChatDeleteCmd moderates the public chat over REST; connected clients
// receive the removal through the publicMessageDeleted event.
func newChatDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat-delete <message-id>",
		Short: "Delete a public chat message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.client.DeleteChatMessage(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted message %s\n", args[0])
			return nil
		},
	}
}

func newNewsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "news-delete <id>",
		Short: "Delete an announcement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.client.DeleteNews(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted news %s\n", args[0])
			return nil
		},
	}
}
