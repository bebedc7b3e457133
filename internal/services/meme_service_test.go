package services

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/kliksy/kliksy-be/internal/models"
	"github.com/kliksy/kliksy-be/internal/storage"
)

type captureNotifier struct {
	created []models.Meme
	changed []PrivacyChange
}

func (n *captureNotifier) MemeCreated(meme models.Meme) {
	n.created = append(n.created, meme)
}

func (n *captureNotifier) MemePrivacyChanged(memeID, oldPrivacy, newPrivacy string) {
	n.changed = append(n.changed, PrivacyChange{MemeID: memeID, OldPrivacy: oldPrivacy, NewPrivacy: newPrivacy})
}

type memeFixture struct {
	db       *sql.DB
	store    *storage.Memory
	notifier *captureNotifier
	memes    *MemeService
	owner    models.User
	other    models.User
}

func newMemeFixture(t *testing.T) *memeFixture {
	t.Helper()
	db := newTestDB(t)
	store := storage.NewMemory("", "test-bucket")
	notifier := &captureNotifier{}

	users := NewUserService(db)
	owner, err := users.Create("owner@example.com", "owner", "pw")
	if err != nil {
		t.Fatal(err)
	}
	other, err := users.Create("other@example.com", "other", "pw")
	if err != nil {
		t.Fatal(err)
	}

	pages := PagePolicy{DefaultSize: 8, MaxSize: 24}
	return &memeFixture{
		db:       db,
		store:    store,
		notifier: notifier,
		memes:    NewMemeService(db, store, notifier, pages, 1024),
		owner:    owner,
		other:    other,
	}
}

func (f *memeFixture) upload(t *testing.T, privacy, description string, data []byte) models.Meme {
	t.Helper()
	meme, err := f.memes.Upload(context.Background(), f.owner, UploadInput{
		Description: description,
		Privacy:     privacy,
		ContentType: "image/png",
		Data:        data,
	})
	if err != nil {
		t.Fatal(err)
	}
	return meme
}

func TestMemeUpload(t *testing.T) {
	f := newMemeFixture(t)

	meme := f.upload(t, models.PrivacyPrivate, "test", []byte{1, 2, 3})

	if meme.FileSizeBytes != 3 {
		t.Errorf("FileSizeBytes = %d, want 3", meme.FileSizeBytes)
	}
	if !strings.HasPrefix(meme.S3Key, "uploads/"+f.owner.ID+"/") || !strings.HasSuffix(meme.S3Key, ".png") {
		t.Errorf("unexpected object key %q", meme.S3Key)
	}
	if !f.store.Has(meme.S3Key) {
		t.Error("object was not stored")
	}
	if meme.FileURL != "https://test-bucket.s3.amazonaws.com/"+meme.S3Key {
		t.Errorf("unexpected file URL %q", meme.FileURL)
	}
	if meme.User.ID != f.owner.ID {
		t.Errorf("owner id = %s, want %s", meme.User.ID, f.owner.ID)
	}

	// Private uploads are invisible in the public feed but present in the
	// owner's profile list.
	feed, err := f.memes.PublicFeed(context.Background(), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(feed.Items) != 0 {
		t.Errorf("public feed has %d items, want 0", len(feed.Items))
	}

	profile, err := f.memes.ProfileList(context.Background(), f.owner, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(profile.Items) != 1 {
		t.Fatalf("profile list has %d items, want 1", len(profile.Items))
	}
	got := profile.Items[0]
	if got.ID != meme.ID || got.Description != "test" || got.Privacy != models.PrivacyPrivate {
		t.Errorf("profile item mismatch: %+v", got)
	}
	if got.FileURL != meme.FileURL {
		t.Errorf("profile item URL = %q, want %q", got.FileURL, meme.FileURL)
	}

	if len(f.notifier.created) != 0 {
		t.Error("private upload must not be pushed to the feed")
	}
}

func TestMemeUploadTooLarge(t *testing.T) {
	f := newMemeFixture(t)

	_, err := f.memes.Upload(context.Background(), f.owner, UploadInput{
		Privacy:     models.PrivacyPublic,
		ContentType: "image/png",
		Data:        make([]byte, 2048),
	})
	if appStatus(t, err) != http.StatusBadRequest {
		t.Errorf("oversize upload status = %d, want 400", appStatus(t, err))
	}
	objects, _ := f.store.List(context.Background(), storage.KeyPrefix)
	if len(objects) != 0 {
		t.Error("oversize upload must not store an object")
	}
}

func TestMemeUploadPublicNotifiesFeed(t *testing.T) {
	f := newMemeFixture(t)

	meme := f.upload(t, models.PrivacyPublic, "", []byte("x"))
	if len(f.notifier.created) != 1 || f.notifier.created[0].ID != meme.ID {
		t.Fatalf("expected one feed push for %s, got %+v", meme.ID, f.notifier.created)
	}
}

func TestMemeChangePrivacy(t *testing.T) {
	f := newMemeFixture(t)
	meme := f.upload(t, models.PrivacyPrivate, "", []byte("x"))

	// A meme is invisible to anyone who is not its owner.
	_, err := f.memes.ChangePrivacy(context.Background(), f.other, meme.ID, models.PrivacyPublic)
	if appStatus(t, err) != http.StatusNotFound {
		t.Errorf("non-owner change status = %d, want 404", appStatus(t, err))
	}

	change, err := f.memes.ChangePrivacy(context.Background(), f.owner, meme.ID, models.PrivacyPublic)
	if err != nil {
		t.Fatal(err)
	}
	if change.OldPrivacy != models.PrivacyPrivate || change.NewPrivacy != models.PrivacyPublic {
		t.Errorf("unexpected change %+v", change)
	}

	feed, err := f.memes.PublicFeed(context.Background(), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(feed.Items) != 1 || feed.Items[0].ID != meme.ID {
		t.Errorf("feed after publish = %+v", feed.Items)
	}
	if len(f.notifier.changed) != 1 {
		t.Errorf("expected one privacy push, got %d", len(f.notifier.changed))
	}
}

func TestMemeDeleteTwice(t *testing.T) {
	f := newMemeFixture(t)
	meme := f.upload(t, models.PrivacyPublic, "", []byte("x"))

	key, err := f.memes.Delete(context.Background(), f.owner, meme.ID)
	if err != nil {
		t.Fatal(err)
	}
	if key != meme.S3Key {
		t.Errorf("deleted key = %q, want %q", key, meme.S3Key)
	}
	if f.store.Has(meme.S3Key) {
		t.Error("stored object survived deletion")
	}

	_, err = f.memes.Delete(context.Background(), f.owner, meme.ID)
	if appStatus(t, err) != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", appStatus(t, err))
	}
}

func TestMemeProfileListStatsAndPaging(t *testing.T) {
	f := newMemeFixture(t)

	ids := make([]string, 0, 5)
	for i := 0; i < 3; i++ {
		ids = append(ids, f.upload(t, models.PrivacyPublic, "", []byte("x")).ID)
	}
	for i := 0; i < 2; i++ {
		ids = append(ids, f.upload(t, models.PrivacyPrivate, "", []byte("x")).ID)
	}

	// Space creation times out so ordering is deterministic.
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range ids {
		if _, err := f.db.Exec(`UPDATE memes SET created_at = $1 WHERE id = $2`,
			base.Add(time.Duration(i)*time.Minute), id); err != nil {
			t.Fatal(err)
		}
	}

	result, err := f.memes.ProfileList(context.Background(), f.owner, 1, 2)
	if err != nil {
		t.Fatal(err)
	}

	if result.Stats.Total != 5 || result.Stats.Public != 3 || result.Stats.Private != 2 {
		t.Errorf("stats = %+v, want {5 3 2}", result.Stats)
	}
	if result.Pagination.TotalPages != 3 || result.Pagination.TotalItems != 5 {
		t.Errorf("pagination = %+v", result.Pagination)
	}
	if len(result.Items) != 2 {
		t.Fatalf("page has %d items, want 2", len(result.Items))
	}
	// Newest first: the last two uploads lead.
	if result.Items[0].ID != ids[4] || result.Items[1].ID != ids[3] {
		t.Errorf("unexpected page order: %s, %s", result.Items[0].ID, result.Items[1].ID)
	}

	// Stats cover the whole set regardless of the requested page.
	page3, err := f.memes.ProfileList(context.Background(), f.owner, 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(page3.Items) != 1 || page3.Stats.Total != 5 {
		t.Errorf("page 3: items=%d stats=%+v", len(page3.Items), page3.Stats)
	}
}

func TestMemePublicFeedJoinsOwners(t *testing.T) {
	f := newMemeFixture(t)
	f.upload(t, models.PrivacyPublic, "hello", []byte("x"))

	feed, err := f.memes.PublicFeed(context.Background(), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(feed.Items) != 1 {
		t.Fatalf("feed has %d items, want 1", len(feed.Items))
	}
	item := feed.Items[0]
	if item.User.Username != "owner" || item.User.Email != "owner@example.com" {
		t.Errorf("feed item owner = %+v", item.User)
	}
	if feed.Pagination.TotalItems != 1 || feed.Pagination.TotalPages != 1 {
		t.Errorf("feed pagination = %+v", feed.Pagination)
	}
}
