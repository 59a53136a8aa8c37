// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package audit_test

import (
	"testing"
	"time"

	"github.com/openstable-io/ingot/audit"
	"github.com/openstable-io/ingot/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJournal(t *testing.T) *audit.Journal {
	t.Helper()
	journal, err := audit.New(audit.JournalConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { journal.Close() })
	return journal
}

func waitForSeq(t *testing.T, journal *audit.Journal, want uint64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for journal.NextSeq() < want {
		if time.Now().After(deadline) {
			t.Fatalf(
				"timeout waiting for journal to reach seq %d, at %d",
				want,
				journal.NextSeq(),
			)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestJournalAppendsSubscribedEvents(t *testing.T) {
	journal := newTestJournal(t)
	eb := event.NewEventBus(nil, nil)
	defer eb.Stop()
	journal.Attach(eb, event.MintEventType)
	eb.Publish(
		event.MintEventType,
		event.NewEvent(event.MintEventType, event.MintEvent{
			LedgerID:    "audit-mint",
			Minter:      "minter1",
			Destination: "alice",
			Amount:      100,
			TotalSupply: 100,
		}),
	)
	waitForSeq(t, journal, 1)
	records, err := journal.Records(0, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, uint64(0), records[0].Seq)
	assert.Equal(t, string(event.MintEventType), records[0].Type)
	assert.Contains(t, string(records[0].Data), "audit-mint")
}

func TestJournalIgnoresUnsubscribedTypes(t *testing.T) {
	journal := newTestJournal(t)
	eb := event.NewEventBus(nil, nil)
	defer eb.Stop()
	journal.Attach(eb, event.MintEventType)
	eb.Publish(
		event.BurnEventType,
		event.NewEvent(event.BurnEventType, event.BurnEvent{LedgerID: "x"}),
	)
	// Give delivery a moment before asserting nothing arrived
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, uint64(0), journal.NextSeq())
}

func TestJournalRecordsPagination(t *testing.T) {
	journal := newTestJournal(t)
	eb := event.NewEventBus(nil, nil)
	defer eb.Stop()
	journal.Attach(eb, event.MintEventType)
	for i := 0; i < 5; i++ {
		eb.Publish(
			event.MintEventType,
			event.NewEvent(event.MintEventType, event.MintEvent{
				LedgerID: "audit-page",
				Amount:   uint64(i),
			}),
		)
	}
	waitForSeq(t, journal, 5)
	records, err := journal.Records(0, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, uint64(0), records[0].Seq)
	assert.Equal(t, uint64(1), records[1].Seq)
	records, err = journal.Records(2, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, uint64(2), records[0].Seq)
	assert.Equal(t, uint64(4), records[2].Seq)
	records, err = journal.Records(10, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestJournalDetach(t *testing.T) {
	journal := newTestJournal(t)
	eb := event.NewEventBus(nil, nil)
	defer eb.Stop()
	journal.Attach(eb, event.MintEventType)
	eb.Publish(
		event.MintEventType,
		event.NewEvent(event.MintEventType, event.MintEvent{LedgerID: "x"}),
	)
	waitForSeq(t, journal, 1)
	journal.Detach()
	eb.Publish(
		event.MintEventType,
		event.NewEvent(event.MintEventType, event.MintEvent{LedgerID: "y"}),
	)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, uint64(1), journal.NextSeq())
}

func TestJournalRecoversSequence(t *testing.T) {
	dataDir := t.TempDir()
	journal, err := audit.New(audit.JournalConfig{DataDir: dataDir})
	require.NoError(t, err)
	eb := event.NewEventBus(nil, nil)
	journal.Attach(eb, event.MintEventType)
	for i := 0; i < 3; i++ {
		eb.Publish(
			event.MintEventType,
			event.NewEvent(event.MintEventType, event.MintEvent{LedgerID: "x"}),
		)
	}
	waitForSeq(t, journal, 3)
	eb.Stop()
	require.NoError(t, journal.Close())
	// Reopening resumes from the recovered sequence number
	journal, err = audit.New(audit.JournalConfig{DataDir: dataDir})
	require.NoError(t, err)
	defer journal.Close()
	assert.Equal(t, uint64(3), journal.NextSeq())
	records, err := journal.Records(0, 0)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}
