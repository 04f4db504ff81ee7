package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"netwebquiz/internal/challenge"
	"netwebquiz/internal/domain"
)

// NewChallengeCmd joins a live 1v1 match room, as a player if the logged-in
// user participates, as a spectator otherwise.
func NewChallengeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "challenge <room-id>",
		Short: "Join a live challenge match",
		Args:  cobra.ExactArgs(1),
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

			updates := make(chan challenge.Snapshot, 8)
			room := challenge.NewRoom(a.client, conn, user, a.log,
				challenge.WithUpdateFunc(func(snap challenge.Snapshot) {
					select {
					case updates <- snap:
					default:
					}
				}))
			if err := room.Join(cmd.Context(), args[0]); err != nil {
				return err
			}
			defer room.Leave()

			return runMatchLoop(room, updates)
		},
	}
}

// runMatchLoop drives the room from the terminal: option numbers answer the
// current question, enter moves on, q leaves.
func runMatchLoop(room *challenge.Room, updates <-chan challenge.Snapshot) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	input := readLines(os.Stdin)
	last := room.Snapshot()
	render(last, challenge.Snapshot{})

	for {
		select {
		case snap := <-updates:
			render(snap, last)
			last = snap
			if snap.Status.Terminal() {
				return nil
			}
		case line, ok := <-input:
			if !ok {
				room.Leave()
				return nil
			}
			handleMatchInput(room, strings.TrimSpace(line))
		case <-stop:
			room.Leave()
			fmt.Println("\nleft the match")
			return nil
		}
	}
}

func handleMatchInput(room *challenge.Room, line string) {
	switch {
	case line == "q":
		room.Leave()
	case line == "":
		room.Next()
	default:
		n, err := strconv.Atoi(line)
		if err != nil {
			return
		}
		switch err := room.Answer(n - 1); err {
		case nil:
		case domain.ErrAlreadyAnswered:
			// Silent no-op, same as tapping a disabled option.
		case domain.ErrNotParticipant:
			fmt.Println(color.YellowString("spectators cannot answer"))
		default:
			fmt.Println(color.RedString("answer rejected: %v", err))
		}
	}
}

// render prints only what changed between snapshots.
func render(snap, prev challenge.Snapshot) {
	if snap.Status.Terminal() {
		printResult(snap)
		return
	}

	switch snap.Status {
	case domain.StatusWaiting:
		if prev.Status != domain.StatusWaiting {
			fmt.Printf("waiting for opponent in %s...\n", snap.RoomID)
		}
	case domain.StatusInProgress:
		newQuestion := prev.QuestionIndex != snap.QuestionIndex || prev.Status != domain.StatusInProgress
		if newQuestion && snap.QuestionIndex < len(snap.Questions) {
			fmt.Println()
			printQuestion(snap.QuestionIndex, snap.Questions[snap.QuestionIndex])
		}
		if snap.Answered && !prev.Answered {
			fmt.Printf("answered, %s points so far (enter for next question)\n", color.CyanString("%d", snap.Score))
		}
		if snap.Spectator && snap.Spectators != prev.Spectators {
			fmt.Printf("%d spectators watching\n", snap.Spectators)
		}
	}
}

func printResult(snap challenge.Snapshot) {
	fmt.Println()
	if snap.Status == domain.StatusAbandoned {
		fmt.Println(color.YellowString("match abandoned"))
	}
	fmt.Printf("final: you %s - %s %s\n",
		color.CyanString("%d", snap.Score), color.CyanString("%d", snap.OpponentScore), snap.Opponent)
	if snap.Winner != "" {
		fmt.Printf("winner: %s\n", snap.Winner)
	}
}
