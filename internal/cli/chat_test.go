package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/mhr-assist/internal/keyword"
	"github.com/rcliao/mhr-assist/internal/model"
	"github.com/rcliao/mhr-assist/internal/record"
	"github.com/rcliao/mhr-assist/internal/router"
	"github.com/rcliao/mhr-assist/internal/session"
	"github.com/rcliao/mhr-assist/internal/store"
)

func newTestChat(t *testing.T, input string) (*chat, *bytes.Buffer) {
	t.Helper()
	log, err := store.NewSQLiteStore(store.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })

	var out bytes.Buffer
	return &chat{
		sess:     session.New(log, router.New(nil), keyword.Default(), nil),
		log:      log,
		in:       strings.NewReader(input),
		out:      &out,
		pasteCmd: "paste-note-does-not-exist",
	}, &out
}

func TestChat_RecordQuestion(t *testing.T) {
	c, out := newTestChat(t, "Check allergies\n/quit\n")

	require.NoError(t, c.run(context.Background()))

	assert.Contains(t, out.String(), record.Default().Answer(model.CategoryAllergies))
	msgs, err := c.sess.Messages(context.Background())
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}

func TestChat_UnknownQuestionWithoutBackend(t *testing.T) {
	c, out := newTestChat(t, "What's the weather?\n")

	require.NoError(t, c.run(context.Background()))
	assert.Contains(t, out.String(), router.FallbackReply)
}

func TestChat_BlankLinesIgnored(t *testing.T) {
	c, _ := newTestChat(t, "\n   \n")

	require.NoError(t, c.run(context.Background()))
	msgs, err := c.sess.Messages(context.Background())
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestChat_SummaryBeforeReply(t *testing.T) {
	c, out := newTestChat(t, "")
	c.handle(context.Background(), "/summary")
	assert.Contains(t, out.String(), NoSummary)
}

func TestChat_SendWithoutSummary(t *testing.T) {
	c, out := newTestChat(t, "")
	c.handle(context.Background(), "send to EMR")
	assert.Contains(t, out.String(), NoSummary)
}

func TestChat_SendLaunchesPasteCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script helper")
	}
	script := filepath.Join(t.TempDir(), "fake-paste")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho \"pasted: $*\"\n"), 0o755))

	c, out := newTestChat(t, "")
	c.pasteCmd = script
	ctx := context.Background()

	c.handle(ctx, "List current medications")
	c.handle(ctx, "/send")

	assert.Contains(t, out.String(), "pasted: "+record.Default().Answer(model.CategoryMedications))
}

func TestChat_MissingPasteCommand(t *testing.T) {
	c, out := newTestChat(t, "")
	ctx := context.Background()

	c.handle(ctx, "Check allergies")
	c.handle(ctx, "/send")

	assert.Contains(t, out.String(), "Please copy the note manually")
}

func TestChat_KeywordsAndExport(t *testing.T) {
	c, out := newTestChat(t, "")
	ctx := context.Background()

	c.handle(ctx, "fever and a rash, check allergies")
	c.sess.SetTranscript("productive cough")
	c.handle(ctx, "/keywords")
	for _, tag := range []string{"fever", "rash", "allergies", "cough"} {
		assert.Contains(t, out.String(), tag)
	}

	out.Reset()
	c.handle(ctx, "/export")
	assert.Contains(t, out.String(), `"summary"`)
	assert.Contains(t, out.String(), `"role": "assistant"`)
}

func TestChat_Quit(t *testing.T) {
	c, _ := newTestChat(t, "")
	assert.True(t, c.handle(context.Background(), "/quit"))
	assert.False(t, c.handle(context.Background(), "/stats"))
}

func TestIsSendTrigger(t *testing.T) {
	assert.True(t, isSendTrigger("Send to EMR"))
	assert.True(t, isSendTrigger("  send note. "))
	assert.False(t, isSendTrigger("send the referral"))
	assert.False(t, isSendTrigger("draft a referral and send note to GP"))
}

func TestChat_SentenceWithSendPhraseReachesRouter(t *testing.T) {
	c, out := newTestChat(t, "")
	ctx := context.Background()

	c.handle(ctx, "check allergies then send note to GP")

	assert.NotContains(t, out.String(), NoSummary)
	assert.Contains(t, out.String(), record.Default().Answer(model.CategoryAllergies))
	msgs, err := c.sess.Messages(ctx)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}
