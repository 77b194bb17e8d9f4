package service

import (
	"context"
	"time"

	"github.com/managemeals/manage-meals-api/internal/domain"
	"github.com/managemeals/manage-meals-api/internal/imagefetch"
	"github.com/managemeals/manage-meals-api/internal/repo"
	"github.com/managemeals/manage-meals-api/internal/search"
)

type fakeSyncRepo struct {
	cursors map[string]time.Time
	getErr  error
	setErr  error
}

func newFakeSyncRepo() *fakeSyncRepo {
	return &fakeSyncRepo{cursors: map[string]time.Time{}}
}

func (f *fakeSyncRepo) GetCursor(ctx context.Context, name string) (*domain.SyncCursor, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	t, ok := f.cursors[name]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &domain.SyncCursor{Name: name, LastSyncedAt: t}, nil
}

func (f *fakeSyncRepo) SetCursor(ctx context.Context, name string, lastSyncedAt time.Time) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.cursors[name] = lastSyncedAt
	return nil
}

type fakeRecipeRepo struct {
	recipes   map[string]*domain.Recipe
	changed   []domain.ChangedRecipe
	updates   []string
	listErr   error
	updateErr error
}

func newFakeRecipeRepo() *fakeRecipeRepo {
	return &fakeRecipeRepo{recipes: map[string]*domain.Recipe{}}
}

func (f *fakeRecipeRepo) GetByUUID(ctx context.Context, uuid string) (*domain.Recipe, error) {
	r, ok := f.recipes[uuid]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return r, nil
}

func (f *fakeRecipeRepo) UpdateImage(ctx context.Context, uuid string, imageURL string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	r, ok := f.recipes[uuid]
	if !ok {
		return repo.ErrNotFound
	}
	r.Data.Image = imageURL
	r.UpdatedAt = time.Now()
	f.updates = append(f.updates, imageURL)
	return nil
}

func (f *fakeRecipeRepo) ListChangedSince(ctx context.Context, since time.Time) ([]domain.ChangedRecipe, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.ChangedRecipe
	for _, r := range f.changed {
		if !r.UpdatedAt.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeDeleteRepo struct {
	tombstones []domain.DeleteTombstone
	err        error
}

func (f *fakeDeleteRepo) ListSince(ctx context.Context, collection string, since time.Time) ([]domain.DeleteTombstone, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.DeleteTombstone
	for _, t := range f.tombstones {
		if t.Collection == collection && !t.DeletedAt.Before(since) {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeIndex struct {
	docs        map[string]search.RecipeDocument
	ensureCalls int
	upserts     int
	ensureErr   error
	upsertErr   error
	deleteErr   error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: map[string]search.RecipeDocument{}}
}

func (f *fakeIndex) EnsureCollection(ctx context.Context) error {
	f.ensureCalls++
	return f.ensureErr
}

func (f *fakeIndex) UpsertRecipes(ctx context.Context, docs []search.RecipeDocument) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	for _, d := range docs {
		f.docs[d.ID] = d
	}
	f.upserts += len(docs)
	return nil
}

func (f *fakeIndex) DeleteRecipes(ctx context.Context, uuids []string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for _, id := range uuids {
		delete(f.docs, id)
	}
	return nil
}

type fakeUserRepo struct {
	users  []*domain.User
	getErr error
}

func (f *fakeUserRepo) GetByMandateID(ctx context.Context, mandateID string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.users {
		if u.GCDdMandateID != "" && u.GCDdMandateID == mandateID {
			return u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) GetByPPSubscriptionID(ctx context.Context, subscriptionID string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.users {
		if u.PPSubscriptionID != "" && u.PPSubscriptionID == subscriptionID {
			return u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) ClearMandate(ctx context.Context, mandateID string) error {
	for _, u := range f.users {
		if u.GCDdMandateID == mandateID {
			u.GCDdMandateID = ""
			u.GCSubscriptionID = ""
			u.SubscriptionType = domain.SubscriptionFree
			u.UpdatedAt = time.Now()
			return nil
		}
	}
	return repo.ErrNotFound
}

func (f *fakeUserRepo) ClearPPSubscription(ctx context.Context, subscriptionID string) error {
	for _, u := range f.users {
		if u.PPSubscriptionID == subscriptionID {
			u.PPSubscriptionID = ""
			u.SubscriptionType = domain.SubscriptionFree
			u.UpdatedAt = time.Now()
			return nil
		}
	}
	return repo.ErrNotFound
}

type fakeWebhookRepo struct {
	records []domain.WebhookRecord
	err     error
}

func (f *fakeWebhookRepo) ListSince(ctx context.Context, since time.Time) ([]domain.WebhookRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.WebhookRecord
	for _, r := range f.records {
		if !r.CreatedAt.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeTaxonomyRepo struct {
	categories map[string]domain.Category
	tags       map[string]domain.Tag
	catErr     error
	tagErr     error
}

func newFakeTaxonomyRepo() *fakeTaxonomyRepo {
	return &fakeTaxonomyRepo{
		categories: map[string]domain.Category{},
		tags:       map[string]domain.Tag{},
	}
}

func (f *fakeTaxonomyRepo) UpsertCategories(ctx context.Context, categories []domain.Category) error {
	if f.catErr != nil {
		return f.catErr
	}
	for _, c := range categories {
		key := c.CreatedByUUID + "/" + c.Slug
		if _, ok := f.categories[key]; !ok {
			f.categories[key] = c
		}
	}
	return nil
}

func (f *fakeTaxonomyRepo) UpsertTags(ctx context.Context, tags []domain.Tag) error {
	if f.tagErr != nil {
		return f.tagErr
	}
	for _, t := range tags {
		key := t.CreatedByUUID + "/" + t.Slug
		if _, ok := f.tags[key]; !ok {
			f.tags[key] = t
		}
	}
	return nil
}

type fakeBlobStore struct {
	objects   map[string][]byte
	uploadErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: map[string][]byte{}}
}

func (f *fakeBlobStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.objects[key] = data
	return nil
}

func (f *fakeBlobStore) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

type fakeFetcher struct {
	img   *imagefetch.Image
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (*imagefetch.Image, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.img, nil
}

type fakeMailer struct {
	sent []domain.EmailMessage
	err  error
}

func (f *fakeMailer) Send(msg domain.EmailMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}
