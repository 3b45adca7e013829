package cmd

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nikogura/cinescope/pkg/assistant"
)

//nolint:gochecknoglobals // Cobra boilerplate
var askMood string

//nolint:gochecknoglobals // Cobra boilerplate
var askCmd = &cobra.Command{
	Use:   "ask [question...]",
	Short: "Ask the movie assistant a question",
	Long: `Ask the Claude-backed movie assistant a question. The assistant knows
about the first movies of the catalog. With --mood and no question, a
question is built from the mood's genres.

Requires ANTHROPIC_API_KEY or assistant.api_key in the config file.

Example:
  cinescope ask "Something like Whiplash but lighter?"
  cinescope ask --mood scared`,
	RunE: runAsk,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVar(&askMood, "mood", "", "Build the question from a mood")
}

func runAsk(cmd *cobra.Command, args []string) (err error) {
	var app *application
	app, err = loadApp(cmd.Context())
	if err != nil {
		return err
	}

	question := strings.Join(args, " ")
	if question == "" && askMood != "" {
		question, err = app.recommender.Prompt(askMood)
		if err != nil {
			return describeFailure(err)
		}
	}

	if strings.TrimSpace(question) == "" {
		err = errors.New("a question or --mood is required")
		return err
	}

	var askSpinner *spinner
	if !getVerbose() && !getJSONOutput() && app.assistant.Available() {
		askSpinner = newSpinner("Asking the movie assistant...")
		askSpinner.start()
	}

	var reply assistant.Reply
	reply, err = app.assistant.Chat(cmd.Context(), question, nil)

	if askSpinner != nil {
		askSpinner.stopSpinner()
	}

	if getJSONOutput() {
		if err != nil {
			reply.Success = false
		}
		printErr := printJSON(reply)
		if err == nil {
			err = printErr
		}
		return err
	}

	fmt.Println(reply.Response)
	return err
}

// spinner provides a simple text-based progress indicator.
type spinner struct {
	message string
	stop    chan bool
	done    chan bool
	mu      sync.Mutex
	active  bool
}

func newSpinner(message string) (s *spinner) {
	s = &spinner{
		message: message,
		stop:    make(chan bool),
		done:    make(chan bool),
	}
	return s
}

func (s *spinner) start() {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.mu.Unlock()

	go func() {
		chars := []string{"|", "/", "-", "\\"}
		i := 0
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		fmt.Printf("%s ", s.message)
		for {
			select {
			case <-s.stop:
				fmt.Printf("\r%s\r", strings.Repeat(" ", len(s.message)+2))
				s.done <- true
				return
			case <-ticker.C:
				fmt.Printf("\r%s %s", s.message, chars[i%len(chars)])
				i++
			}
		}
	}()
}

func (s *spinner) stopSpinner() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.stop <- true
	<-s.done

	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
}
