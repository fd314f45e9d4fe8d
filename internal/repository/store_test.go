package repository

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"FixtureSync/internal/model"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func sampleData() *model.MatchData {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	score := 2
	return &model.MatchData{
		LastUpdated: &ts,
		Matches: []model.Match{{
			ID:          "m1",
			Date:        "2025-01-05",
			Competition: "Premier League",
			HomeTeam:    &model.Team{Name: "Arsenal", LogoURL: "logo/Premier League/Arsenal FC.png", Score: &score},
			AwayTeam:    &model.Team{Name: "Chelsea"},
		}},
	}
}

func TestFileStoreMissingFileLoadsEmpty(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "matches.json"), false, quietLogger())
	data, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if data.Matches == nil || len(data.Matches) != 0 || data.LastUpdated != nil {
		t.Fatalf("expected empty document, got %+v", data)
	}
}

func TestFileStoreCorruptFileIsBackedUp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "matches.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(path, false, quietLogger())
	data, err := s.Load(context.Background())
	if err != nil || len(data.Matches) != 0 {
		t.Fatalf("corrupt file should load as empty, got %+v, %v", data, err)
	}
	if err := s.Save(context.Background(), data); err != nil {
		t.Fatal(err)
	}

	backups, err := filepath.Glob(filepath.Join(dir, "matches.json.corrupt-*"))
	if err != nil || len(backups) != 1 {
		t.Fatalf("backups = %v, %v", backups, err)
	}
	raw, err := os.ReadFile(backups[0])
	if err != nil || string(raw) != "{not json" {
		t.Fatalf("backup content = %q, %v", raw, err)
	}
}

func TestFileStoreCorruptFileReadOnlyKeepsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.json")
	if err := os.WriteFile(path, []byte("[1,"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, err := NewFileStore(path, true, quietLogger()).Load(context.Background())
	if err != nil || len(data.Matches) != 0 {
		t.Fatalf("got %+v, %v", data, err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("read-only store must leave the file in place: %v", err)
	}
}

// handEdited 手工编辑过的文件：数字 id、字符串比分、非 RFC3339 时间、队伍写成字符串
const handEdited = `{
  "last_updated": "2024-05-01 10:00:00",
  "matches": [
    {"id": 7, "date": "2024-05-10", "competition": "EPL",
     "home_team": {"name": "Arsenal", "score": "3"},
     "away_team": {"name": "Chelsea", "logo_url": "", "score": null}},
    {"id": "m2", "date": "2024-05-11", "competition": "Premier League",
     "home_team": "Liverpool",
     "away_team": {"name": "Man City", "score": 1.0}},
    {"date": "2024-05-12", "home_team": {"name": "Wolves", "score": "n/a"}}
  ]
}`

func TestFileStoreLoadsHandEditedRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.json")
	if err := os.WriteFile(path, []byte(handEdited), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(path, false, quietLogger())
	data, err := s.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	assertHandEdited(t, data)

	// 启动时的 加载 -> 保存 不能丢数据
	if err := s.Save(context.Background(), data); err != nil {
		t.Fatal(err)
	}
	again, err := NewFileStore(path, false, quietLogger()).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	assertHandEdited(t, again)
}

func assertHandEdited(t *testing.T, data *model.MatchData) {
	t.Helper()
	if len(data.Matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(data.Matches))
	}
	want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	if data.LastUpdated == nil || !data.LastUpdated.Equal(want) {
		t.Errorf("last_updated = %v", data.LastUpdated)
	}
	first, second, third := data.Matches[0], data.Matches[1], data.Matches[2]
	if first.ID != "7" || first.HomeTeam.Score == nil || *first.HomeTeam.Score != 3 || first.AwayTeam.Score != nil {
		t.Errorf("first = %+v %+v %+v", first, first.HomeTeam, first.AwayTeam)
	}
	if second.HomeTeam == nil || second.HomeTeam.Name != "Liverpool" {
		t.Errorf("string team not read as name: %+v", second.HomeTeam)
	}
	if second.AwayTeam.Score == nil || *second.AwayTeam.Score != 1 {
		t.Errorf("float score = %v", second.AwayTeam.Score)
	}
	if third.ID != "" || third.AwayTeam != nil || third.HomeTeam.Score != nil {
		t.Errorf("third = %+v %+v", third, third.HomeTeam)
	}
}

func TestFileStoreUnknownTimestampIsDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.json")
	if err := os.WriteFile(path, []byte(`{"last_updated": "yesterday", "matches": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	data, err := NewFileStore(path, false, quietLogger()).Load(context.Background())
	if err != nil || data.LastUpdated != nil {
		t.Fatalf("got %v, %v", data.LastUpdated, err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("readable file must not be moved aside: %v", err)
	}
}

func TestFileStoreSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.json")
	s := NewFileStore(path, false, quietLogger())
	if err := s.Save(context.Background(), sampleData()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := NewFileStore(path, false, quietLogger()).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(data.Matches) != 1 || data.Matches[0].HomeTeam.Score == nil || *data.Matches[0].HomeTeam.Score != 2 {
		t.Fatalf("unexpected data %+v", data.Matches)
	}
	if data.Matches[0].AwayTeam.Score != nil {
		t.Fatalf("missing score should stay null")
	}
}

func TestFileStoreReadOnlySkipsWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.json")
	if err := NewFileStore(path, true, quietLogger()).Save(context.Background(), sampleData()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("read-only store must not write, stat err = %v", err)
	}
}

func TestFileStoreChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.json")
	s := NewFileStore(path, false, quietLogger())
	if s.Changed() {
		t.Fatalf("missing file should not report a change")
	}
	if err := s.Save(context.Background(), sampleData()); err != nil {
		t.Fatal(err)
	}
	if s.Changed() {
		t.Fatalf("own write should not report a change")
	}
	future := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
	if !s.Changed() {
		t.Fatalf("external edit should report a change")
	}
	if _, err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s.Changed() {
		t.Fatalf("reload should clear the change")
	}
}

// fakeDynamo 以内存 map 模拟单表
type fakeDynamo struct {
	items map[string]map[string]types.AttributeValue
	err   error
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	key := in.Key["doc_id"].(*types.AttributeValueMemberS).Value
	return &dynamodb.GetItemOutput{Item: f.items[key]}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.items == nil {
		f.items = map[string]map[string]types.AttributeValue{}
	}
	key := in.Item["doc_id"].(*types.AttributeValueMemberS).Value
	f.items[key] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func TestDynamoStore(t *testing.T) {
	ctx := context.Background()
	client := &fakeDynamo{}
	s := NewDynamoStore(client, "fixtures", "matches/data")

	if _, err := s.Load(ctx); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := s.Save(ctx, sampleData()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(data.Matches) != 1 || data.Matches[0].ID != "m1" || data.Matches[0].HomeTeam.Name != "Arsenal" {
		t.Fatalf("unexpected data %+v", data.Matches)
	}
	if data.LastUpdated == nil || !data.LastUpdated.Equal(*sampleData().LastUpdated) {
		t.Fatalf("last_updated lost: %v", data.LastUpdated)
	}

	// 控制台手工编辑：数字 id、字符串比分
	client.items["matches/data"] = map[string]types.AttributeValue{
		"doc_id": &types.AttributeValueMemberS{Value: "matches/data"},
		"matches": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			&types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
				"id":   &types.AttributeValueMemberN{Value: "12345678901234567"},
				"date": &types.AttributeValueMemberS{Value: "2024-05-10"},
				"home_team": &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
					"name":  &types.AttributeValueMemberS{Value: "Arsenal"},
					"score": &types.AttributeValueMemberS{Value: "2"},
				}},
			}},
		}},
	}
	data, err = s.Load(ctx)
	if err != nil {
		t.Fatalf("hand-edited item: %v", err)
	}
	if len(data.Matches) != 1 || data.Matches[0].ID != "12345678901234567" {
		t.Fatalf("hand-edited item = %+v", data.Matches)
	}
	if sc := data.Matches[0].HomeTeam.Score; sc == nil || *sc != 2 {
		t.Fatalf("string score = %v", sc)
	}

	client.err = errors.New("throttled")
	if _, err := s.Load(ctx); err == nil || errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("client errors should be wrapped, got %v", err)
	}
}

// fakeDocument 可控的文档库
type fakeDocument struct {
	data    *model.MatchData
	loadErr error
	saveErr error
	saved   int
}

func (f *fakeDocument) Load(context.Context) (*model.MatchData, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.data, nil
}

func (f *fakeDocument) Save(_ context.Context, d *model.MatchData) error {
	f.saved++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.data = d
	return nil
}

func TestMirrorStoreLoadPrefersDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.json")
	file := NewFileStore(path, false, quietLogger())
	if err := file.Save(context.Background(), &model.MatchData{Matches: []model.Match{{ID: "from-file"}}}); err != nil {
		t.Fatal(err)
	}

	doc := &fakeDocument{data: &model.MatchData{Matches: []model.Match{{ID: "from-doc"}}}}
	s := NewMirrorStore(doc, file, quietLogger())
	data, _ := s.Load(context.Background())
	if data.Matches[0].ID != "from-doc" {
		t.Fatalf("expected document data, got %+v", data.Matches)
	}

	for _, loadErr := range []error{ErrDocumentNotFound, errors.New("connection refused")} {
		doc.loadErr = loadErr
		data, _ = s.Load(context.Background())
		if data.Matches[0].ID != "from-file" {
			t.Fatalf("%v: expected file fallback, got %+v", loadErr, data.Matches)
		}
	}
}

func TestMirrorStoreSaveWritesBoth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.json")
	doc := &fakeDocument{saveErr: errors.New("unavailable")}
	s := NewMirrorStore(doc, NewFileStore(path, false, quietLogger()), quietLogger())
	if err := s.Save(context.Background(), sampleData()); err != nil {
		t.Fatalf("document failure must not fail the save: %v", err)
	}
	if doc.saved != 1 {
		t.Fatalf("document store not written")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file not written: %v", err)
	}
}

func TestMirrorStoreChangedIgnoresFileWithDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.json")
	file := NewFileStore(path, false, quietLogger())
	if err := file.Save(context.Background(), sampleData()); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
	if NewMirrorStore(&fakeDocument{}, file, quietLogger()).Changed() {
		t.Fatalf("document-backed mirror should ignore file mtime")
	}
	if !NewMirrorStore(nil, file, quietLogger()).Changed() {
		t.Fatalf("file-only mirror should report file changes")
	}
}
