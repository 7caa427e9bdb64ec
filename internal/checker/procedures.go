package checker

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"slices"

	"github.com/dmitrijs2005/n0t3b00k-checker/internal/logging"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/models"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/notebook"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/outcome"
)

func (c *Checker) putFlag(ctx context.Context, task *models.Task, log logging.Logger) (Report, error) {
	if task.Flag == "" {
		return Report{}, outcome.Internal("putflag without a flag", nil)
	}
	user, err := c.plant(ctx, task, log, task.Flag)
	if err != nil {
		return Report{}, err
	}
	return Report{AttackInfo: user.Username}, nil
}

func (c *Checker) getFlag(ctx context.Context, task *models.Task, log logging.Logger) (Report, error) {
	user, note, err := c.retrieve(ctx, task, log)
	if err != nil {
		return Report{}, err
	}

	want := task.Flag
	if want == "" {
		want = user.Note
	}
	if note != want {
		log.Warn(ctx, "Flag mismatch", "username", user.Username, "note_id", user.NoteID)
		return Report{}, outcome.Mumble("Flag is no longer in note", nil)
	}
	return Report{}, nil
}

func (c *Checker) putNoise(ctx context.Context, task *models.Task, log logging.Logger) (Report, error) {
	_, err := c.plant(ctx, task, log, c.gen.NoiseText())
	return Report{}, err
}

func (c *Checker) getNoise(ctx context.Context, task *models.Task, log logging.Logger) (Report, error) {
	user, note, err := c.retrieve(ctx, task, log)
	if err != nil {
		return Report{}, err
	}
	if note != user.Note {
		log.Warn(ctx, "Noise mismatch", "username", user.Username, "note_id", user.NoteID)
		return Report{}, outcome.Mumble("Noise is no longer in note", nil)
	}
	return Report{}, nil
}

// plant registers a fresh actor, stores note for it and persists the actor
// under the task chain id.
func (c *Checker) plant(ctx context.Context, task *models.Task, log logging.Logger, note string) (*models.User, error) {
	user, err := c.newUser(task, note)
	if err != nil {
		return nil, err
	}

	client, err := c.session(ctx, task, log)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	if err := client.Register(ctx, user); err != nil {
		return nil, err
	}
	if err := client.Login(ctx, user); err != nil {
		return nil, err
	}
	if user.NoteID, err = client.SetNote(ctx, note); err != nil {
		return nil, err
	}

	if err := c.saveUser(ctx, user); err != nil {
		return nil, err
	}
	log.Debug(ctx, "Actor stored", "username", user.Username, "note_id", user.NoteID)
	return user, nil
}

// retrieve logs in as the actor planted for the chain and fetches its note.
func (c *Checker) retrieve(ctx context.Context, task *models.Task, log logging.Logger) (*models.User, string, error) {
	user, err := c.loadUser(ctx, task.TaskChainID)
	if err != nil {
		return nil, "", err
	}

	client, err := c.session(ctx, task, log)
	if err != nil {
		return nil, "", err
	}
	defer client.Close()

	if err := client.Login(ctx, user); err != nil {
		return nil, "", err
	}
	note, err := client.GetNote(ctx, user.NoteID)
	if err != nil {
		return nil, "", err
	}
	return user, note, nil
}

func (c *Checker) havocHelp(ctx context.Context, task *models.Task, log logging.Logger) (Report, error) {
	client, err := c.session(ctx, task, log)
	if err != nil {
		return Report{}, err
	}
	defer client.Close()

	help, err := client.Help(ctx)
	if err != nil {
		return Report{}, err
	}
	if help != notebook.HelpText {
		log.Warn(ctx, "Unexpected help text", "reply", help)
		return Report{}, outcome.Mumble("Could not get help menu", nil)
	}
	return Report{}, nil
}

func (c *Checker) havocUserList(ctx context.Context, task *models.Task, log logging.Logger) (Report, error) {
	user, err := c.newUser(task, "")
	if err != nil {
		return Report{}, err
	}

	client, err := c.session(ctx, task, log)
	if err != nil {
		return Report{}, err
	}
	defer client.Close()

	if err := client.Register(ctx, user); err != nil {
		return Report{}, err
	}
	names, err := client.ListUsers(ctx)
	if err != nil {
		return Report{}, err
	}
	if !slices.Contains(names, user.Username) {
		log.Warn(ctx, "User not listed", "username", user.Username, "listed", len(names))
		return Report{}, outcome.Mumble("User missing from user list", nil)
	}
	return Report{}, nil
}

func (c *Checker) havocNoteList(ctx context.Context, task *models.Task, log logging.Logger) (Report, error) {
	user, err := c.newUser(task, c.gen.NoiseText())
	if err != nil {
		return Report{}, err
	}

	client, err := c.session(ctx, task, log)
	if err != nil {
		return Report{}, err
	}
	defer client.Close()

	if err := client.Register(ctx, user); err != nil {
		return Report{}, err
	}
	if err := client.Login(ctx, user); err != nil {
		return Report{}, err
	}
	noteID, err := client.SetNote(ctx, user.Note)
	if err != nil {
		return Report{}, err
	}
	ids, err := client.ListNotes(ctx)
	if err != nil {
		return Report{}, err
	}
	if !slices.Contains(ids, noteID) {
		log.Warn(ctx, "Note not listed", "note_id", noteID, "listed", len(ids))
		return Report{}, outcome.Mumble("Note missing from user list", nil)
	}
	return Report{}, nil
}

// exploitDump abuses the debug dump command, which prints every note of
// every user without authentication.
func (c *Checker) exploitDump(ctx context.Context, task *models.Task, log logging.Logger) (Report, error) {
	if task.FlagRegex == "" {
		return Report{}, outcome.Internal("exploit without a flag regex", nil)
	}
	re, err := regexp.Compile(task.FlagRegex)
	if err != nil {
		return Report{}, outcome.Internal("invalid flag regex", err)
	}

	client, err := c.session(ctx, task, log)
	if err != nil {
		return Report{}, err
	}
	defer client.Close()

	dump, err := client.Dump(ctx)
	if err != nil {
		return Report{}, err
	}

	for _, candidate := range re.FindAllString(dump, -1) {
		if matchesHash(candidate, task.FlagHash) {
			return Report{Flag: candidate}, nil
		}
	}
	log.Warn(ctx, "No flag in dump", "bytes", len(dump))
	return Report{}, outcome.Mumble("Flag not found in dump", nil)
}

// matchesHash reports whether sha256(flag) equals the hex digest want. An
// empty want accepts any flag.
func matchesHash(flag, want string) bool {
	if want == "" {
		return true
	}
	sum := sha256.Sum256([]byte(flag))
	return hex.EncodeToString(sum[:]) == want
}
