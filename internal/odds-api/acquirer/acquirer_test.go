package acquirer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/radieske/nba-odds-feed/pkg/contracts/events"
)

type fakeStore struct {
	games []events.GameSnapshot
	err   error
}

func (f *fakeStore) UpcomingGames(context.Context) ([]events.GameSnapshot, error) {
	return f.games, f.err
}

type fakeFetcher struct {
	body []byte
	err  error
}

func (f *fakeFetcher) Fetch(context.Context) ([]byte, error) {
	return f.body, f.err
}

// corpo upstream mínimo com um evento válido e mercados vazios
const feedBody = `{"events":[[101,"Miami Heat","Chicago Bulls",null,1767000000,null,null,null,{"0":[]}]]}`

func storedGame(id string) events.GameSnapshot {
	return events.GameSnapshot{
		GameID:    id,
		HomeTeam:  "Home",
		AwayTeam:  "Away",
		StartTime: time.Now().UTC(),
	}
}

func TestSourceValid(t *testing.T) {
	for _, s := range []Source{SourceAuto, SourceDatabase, SourceLive, SourceFile, SourceMock} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if Source("bogus").Valid() {
		t.Error("bogus should be invalid")
	}
}

func TestAcquire_UnknownSource(t *testing.T) {
	a := &Acquirer{}
	if _, err := a.Acquire(context.Background(), "bogus"); err == nil {
		t.Fatal("expected error for unknown source")
	}
}

func TestAcquire_AutoPrefersDatabase(t *testing.T) {
	a := &Acquirer{
		Store: &fakeStore{games: []events.GameSnapshot{storedGame("db-1")}},
		Live:  &fakeFetcher{err: errors.New("should not be called before database fails")},
	}

	res, err := a.Acquire(context.Background(), SourceAuto)
	if err != nil {
		t.Fatalf("auto never errors, got %v", err)
	}
	if res.Source != "database" || len(res.Games) != 1 || res.Games[0].GameID != "db-1" {
		t.Errorf("result: %+v", res)
	}
	if res.Degraded {
		t.Error("database hit must not be marked degraded")
	}
}

func TestAcquire_AutoFallsThroughToLive(t *testing.T) {
	a := &Acquirer{
		Store: &fakeStore{}, // sem jogos
		Live:  &fakeFetcher{body: []byte(feedBody)},
	}

	res, err := a.Acquire(context.Background(), SourceAuto)
	if err != nil {
		t.Fatalf("auto never errors, got %v", err)
	}
	if res.Source != "live" || len(res.Games) != 1 || res.Games[0].GameID != "101" {
		t.Errorf("result: %+v", res)
	}
}

func TestAcquire_AutoFallsThroughToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte(feedBody), 0o644); err != nil {
		t.Fatal(err)
	}

	a := &Acquirer{
		Store:        &fakeStore{err: errors.New("db down")},
		Live:         &fakeFetcher{err: errors.New("upstream down")},
		SnapshotPath: path,
	}

	res, err := a.Acquire(context.Background(), SourceAuto)
	if err != nil {
		t.Fatalf("auto never errors, got %v", err)
	}
	if res.Source != "file" || len(res.Games) != 1 {
		t.Errorf("result: %+v", res)
	}
}

// Com todas as fontes reais fora do ar, a cadeia termina na fixture e o
// chamador nunca vê erro nem lista vazia.
func TestAcquire_AutoDegradesToFixture(t *testing.T) {
	var attempts []string
	a := &Acquirer{
		Store:        &fakeStore{err: errors.New("db down")},
		Live:         &fakeFetcher{err: errors.New("upstream down")},
		SnapshotPath: filepath.Join(t.TempDir(), "missing.json"),
		OnAttempt: func(source, outcome string) {
			attempts = append(attempts, source+":"+outcome)
		},
	}

	res, err := a.Acquire(context.Background(), SourceAuto)
	if err != nil {
		t.Fatalf("auto never errors, got %v", err)
	}
	if res.Source != "mock" {
		t.Errorf("provenance: %q", res.Source)
	}
	if len(res.Games) != 2 {
		t.Errorf("fixture has 2 games, got %d", len(res.Games))
	}

	want := []string{"database:error", "live:error", "file:error", "mock:ok"}
	if len(attempts) != len(want) {
		t.Fatalf("attempts: %v", attempts)
	}
	for i := range want {
		if attempts[i] != want[i] {
			t.Errorf("attempt %d: %q, want %q", i, attempts[i], want[i])
		}
	}
}

// Fonte vazia (sem erro) também avança a cadeia
func TestAcquire_AutoSkipsEmptySources(t *testing.T) {
	a := &Acquirer{
		Store: &fakeStore{},
		Live:  &fakeFetcher{body: []byte(`{"events":[]}`)},
	}

	res, err := a.Acquire(context.Background(), SourceAuto)
	if err != nil {
		t.Fatalf("auto never errors, got %v", err)
	}
	if res.Source != "mock" || len(res.Games) != 2 {
		t.Errorf("result: %+v", res)
	}
}

func TestAcquire_DirectDatabaseErrorPropagates(t *testing.T) {
	a := &Acquirer{Store: &fakeStore{err: errors.New("db down")}}

	res, err := a.Acquire(context.Background(), SourceDatabase)
	if err == nil {
		t.Fatal("direct source failure must propagate")
	}
	if res.Source != "database" {
		t.Errorf("provenance: %q", res.Source)
	}
}

// Pedido direto que degrada pra fixture mantém a proveniência pedida mas
// sinaliza a degradação, pra resposta não acabar em cache
func TestAcquire_DirectLiveEmptyDegradesWithFlag(t *testing.T) {
	a := &Acquirer{
		Live:              &fakeFetcher{body: []byte(`{"events":[]}`)},
		AllowMockFallback: true,
	}

	res, err := a.Acquire(context.Background(), SourceLive)
	if err != nil {
		t.Fatal(err)
	}
	if res.Source != "live" || len(res.Games) != 2 {
		t.Errorf("result: %+v", res)
	}
	if !res.Degraded {
		t.Error("fixture content must be marked degraded")
	}
}

func TestAcquire_DirectLiveEmptyWithoutFallbackStaysEmpty(t *testing.T) {
	a := &Acquirer{Live: &fakeFetcher{body: []byte(`{"events":[]}`)}}

	res, err := a.Acquire(context.Background(), SourceLive)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Games) != 0 || res.Degraded {
		t.Errorf("result: %+v", res)
	}
}

func TestAcquire_FileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte(feedBody), 0o644); err != nil {
		t.Fatal(err)
	}

	a := &Acquirer{SnapshotPath: path}

	res, err := a.Acquire(context.Background(), SourceFile)
	if err != nil {
		t.Fatal(err)
	}
	if res.Source != "file" || len(res.Games) != 1 || res.Games[0].HomeTeam != "Miami Heat" {
		t.Errorf("result: %+v", res)
	}
	if res.Degraded {
		t.Error("real file content must not be marked degraded")
	}
}

func TestAcquire_MockSource(t *testing.T) {
	a := &Acquirer{}

	res, err := a.Acquire(context.Background(), SourceMock)
	if err != nil {
		t.Fatal(err)
	}
	if res.Source != "mock" || len(res.Games) != 2 {
		t.Errorf("result: %+v", res)
	}
}
