package repository

import (
	"testing"
	"time"

	"github.com/khanhduong/wikiquiz/internal/apperr"
	"github.com/khanhduong/wikiquiz/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.QuizRecord{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM quizzes")
	})
	return db
}

func sampleRecord(url string) *model.QuizRecord {
	return &model.QuizRecord{
		URL:           url,
		Title:         "Alan Turing",
		Summary:       "An English mathematician and computer scientist.",
		KeyEntities:   []byte(`{"people":["Alan Turing"],"organizations":[],"locations":["London"]}`),
		Sections:      []byte(`["Early life","Career"]`),
		Quiz:          []byte(`[{"question":"Who?","options":["a","b","c","d"],"answer":"a","explanation":"x","difficulty":"easy"}]`),
		RelatedTopics: []byte(`["Enigma machine","Bletchley Park"]`),
		RawHTML:       "<html>turing</html>",
	}
}

func TestCreateAndRoundTrip(t *testing.T) {
	repo := NewQuizRepository(newTestDB(t))

	rec := sampleRecord("https://en.wikipedia.org/wiki/Alan_Turing")
	require.NoError(t, repo.Create(rec))
	require.NotZero(t, rec.ID, "Create must assign an ID")
	require.False(t, rec.CreatedAt.IsZero(), "Create must set CreatedAt")

	byID, err := repo.FindByID(rec.ID)
	require.NoError(t, err)
	byURL, err := repo.FindByURL(rec.URL)
	require.NoError(t, err)
	require.NotNil(t, byURL)

	for _, got := range []*model.QuizRecord{byID, byURL} {
		require.Equal(t, rec.ID, got.ID)
		require.Equal(t, rec.URL, got.URL)
		require.Equal(t, rec.Title, got.Title)
		require.Equal(t, rec.Summary, got.Summary)
		require.JSONEq(t, string(rec.Quiz), string(got.Quiz))
		require.JSONEq(t, string(rec.KeyEntities), string(got.KeyEntities))
		require.JSONEq(t, string(rec.Sections), string(got.Sections))
		require.JSONEq(t, string(rec.RelatedTopics), string(got.RelatedTopics))
		require.Equal(t, rec.RawHTML, got.RawHTML)
	}
}

func TestFindByURLMissIsNotAnError(t *testing.T) {
	repo := NewQuizRepository(newTestDB(t))

	rec, err := repo.FindByURL("https://en.wikipedia.org/wiki/Nobody")
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestFindByIDNotFound(t *testing.T) {
	repo := NewQuizRepository(newTestDB(t))

	_, err := repo.FindByID(9999)
	require.True(t, apperr.IsKind(err, apperr.KindNotFound), "got %v", err)
}

func TestCreateDuplicateURL(t *testing.T) {
	repo := NewQuizRepository(newTestDB(t))

	require.NoError(t, repo.Create(sampleRecord("https://en.wikipedia.org/wiki/Alan_Turing")))

	err := repo.Create(sampleRecord("https://en.wikipedia.org/wiki/Alan_Turing"))
	require.True(t, apperr.IsKind(err, apperr.KindDuplicateURL), "got %v", err)

	var count int64
	require.NoError(t, newTestDB(t).Model(&model.QuizRecord{}).Count(&count).Error)
	require.EqualValues(t, 1, count, "unique constraint must keep one row per URL")
}

func TestListAllNewestFirstWithoutRawHTML(t *testing.T) {
	db := newTestDB(t)
	repo := NewQuizRepository(db)

	old := sampleRecord("https://en.wikipedia.org/wiki/Alonzo_Church")
	old.CreatedAt = time.Now().Add(-2 * time.Hour)
	mid := sampleRecord("https://en.wikipedia.org/wiki/Kurt_Godel")
	mid.CreatedAt = time.Now().Add(-time.Hour)
	recent := sampleRecord("https://en.wikipedia.org/wiki/Alan_Turing")

	require.NoError(t, repo.Create(old))
	require.NoError(t, repo.Create(mid))
	require.NoError(t, repo.Create(recent))

	records, err := repo.ListAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	require.Equal(t, "https://en.wikipedia.org/wiki/Alan_Turing", records[0].URL)
	require.Equal(t, "https://en.wikipedia.org/wiki/Kurt_Godel", records[1].URL)
	require.Equal(t, "https://en.wikipedia.org/wiki/Alonzo_Church", records[2].URL)

	for _, rec := range records {
		require.Empty(t, rec.RawHTML, "listing must not load raw HTML")
	}
}
