package thread

import (
	"context"
	"fmt"

	"github.com/timesdev/times-bridge/internal/domain/entity"
)

// fakeDirectory is an in-memory Directory for use-case tests.
type fakeDirectory struct {
	active      []entity.Thread
	archived    []entity.Thread
	activeErr   error
	archivedErr error

	firstMessages map[string]*entity.ThreadMessage
	firstErr      error

	createErr   error
	createCalls int

	renameErr error
	renamed   map[string]string

	sendErr error
	sent    []sentMessage

	channelsByName map[string]string
}

type sentMessage struct {
	channelID string
	content   string
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		firstMessages:  make(map[string]*entity.ThreadMessage),
		renamed:        make(map[string]string),
		channelsByName: make(map[string]string),
	}
}

func (f *fakeDirectory) ActiveThreads(ctx context.Context, channelID string) ([]entity.Thread, error) {
	if f.activeErr != nil {
		return nil, f.activeErr
	}
	return f.active, nil
}

func (f *fakeDirectory) ArchivedThreads(ctx context.Context, channelID string) ([]entity.Thread, error) {
	if f.archivedErr != nil {
		return nil, f.archivedErr
	}
	return f.archived, nil
}

func (f *fakeDirectory) FirstMessage(ctx context.Context, threadID string) (*entity.ThreadMessage, error) {
	if f.firstErr != nil {
		return nil, f.firstErr
	}
	return f.firstMessages[threadID], nil
}

func (f *fakeDirectory) CreateThread(ctx context.Context, channelID, name string, archiveMinutes int) (*entity.Thread, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	th := entity.Thread{
		ID:       fmt.Sprintf("thread-%d", f.createCalls),
		GuildID:  "guild-1",
		ParentID: channelID,
		Name:     name,
	}
	f.active = append(f.active, th)
	return &th, nil
}

func (f *fakeDirectory) RenameThread(ctx context.Context, threadID, name string) error {
	if f.renameErr != nil {
		return f.renameErr
	}
	f.renamed[threadID] = name
	return nil
}

func (f *fakeDirectory) SendMessage(ctx context.Context, channelID, content string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMessage{channelID: channelID, content: content})
	return nil
}

func (f *fakeDirectory) TextChannelIDByName(ctx context.Context, guildID, name string) (string, error) {
	return f.channelsByName[name], nil
}
