package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"netwebquiz/internal/domain"
)

// NewThemesCmd lists the selectable question pools.
func NewThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List question themes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			themes, err := a.cache.Themes(cmd.Context())
			if err != nil {
				return err
			}
			for _, theme := range themes {
				fmt.Printf("%-20s %d questions\n", theme.Name, theme.QuestionCount)
			}
			return nil
		},
	}
}

// NewPlayCmd runs a solo quiz: a timed question loop against one theme.
func NewPlayCmd() *cobra.Command {
	var theme string
	var count int
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a solo quiz",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if theme == "" {
				return fmt.Errorf("--theme is required")
			}

			questions, err := a.cache.RandomQuestions(cmd.Context(), theme, count)
			if err != nil {
				return err
			}
			return runSoloQuiz(theme, questions)
		},
	}
	cmd.Flags().StringVarP(&theme, "theme", "t", "", "question theme")
	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of questions")
	return cmd
}

func runSoloQuiz(theme string, questions []domain.Question) error {
	fmt.Printf("solo quiz: %s, %d questions, %ds each\n\n", color.CyanString(theme), len(questions), domain.QuestionSeconds)

	input := readLines(os.Stdin)
	score, correct := 0, 0
	for i, q := range questions {
		printQuestion(i, q)

		choice, timeLeft := askWithClock(input, len(q.Options))
		if choice == q.Correct {
			points := domain.Award(true, timeLeft)
			score += points
			correct++
			fmt.Println(color.GreenString("correct! +%d points", points))
		} else if choice < 0 {
			fmt.Println(color.YellowString("time's up"))
		} else {
			fmt.Println(color.RedString("wrong, the answer was: %s", q.Options[q.Correct]))
		}
		if q.Explanation != "" {
			fmt.Println("  " + q.Explanation)
		}
		fmt.Println()
	}

	fmt.Printf("final score: %s (%d/%d correct, max %d)\n",
		color.CyanString("%d", score), correct, len(questions), len(questions)*domain.MaxPointsPerQuestion)
	return nil
}

func printQuestion(i int, q domain.Question) {
	fmt.Printf("%s %s\n", color.HiBlueString("Q%d.", i+1), q.Question)
	for j, opt := range q.Options {
		fmt.Printf("  %d) %s\n", j+1, opt)
	}
}

// askWithClock reads a 1-based option number, giving up when the question
// clock runs out. Returns -1 and 0 on timeout or bad input.
func askWithClock(input <-chan string, optionCount int) (choice, timeLeft int) {
	start := time.Now()
	deadline := time.After(domain.QuestionSeconds * time.Second)
	for {
		select {
		case line, ok := <-input:
			if !ok {
				return -1, 0
			}
			n, err := strconv.Atoi(strings.TrimSpace(line))
			if err != nil || n < 1 || n > optionCount {
				fmt.Printf("enter 1-%d: ", optionCount)
				continue
			}
			left := domain.QuestionSeconds - int(time.Since(start).Seconds())
			if left < 0 {
				left = 0
			}
			return n - 1, left
		case <-deadline:
			return -1, 0
		}
	}
}

// readLines pumps stdin lines into a channel so reads can race the clock.
func readLines(f *os.File) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}
