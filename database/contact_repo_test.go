package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rpupo63/quickdialer/errs"
	"github.com/rpupo63/quickdialer/reqcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactRepo_CreateThenList(t *testing.T) {
	db := newTestDB(t)
	tags := NewTagRepo(db)
	contacts := NewContactRepo(db)
	ctx := context.Background()

	_, err := tags.Create(ctx, "familia", "#E2E2E2")
	require.NoError(t, err)

	created, err := contacts.Create(ctx, "Ana", "+551199999999", []string{"familia"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	page, err := contacts.List(ctx, "Ana", 0, 20)
	require.NoError(t, err)
	require.Len(t, page.Contacts, 1)
	assert.Equal(t, 1, page.PageCount)
	assert.EqualValues(t, 1, page.Total)

	got := page.Contacts[0]
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, "+551199999999", got.Contact)
	require.NotNil(t, got.FirstTag())
	assert.Equal(t, "familia", got.FirstTag().Slug)
	assert.Equal(t, "#E2E2E2", got.FirstTag().Color)
}

func TestContactRepo_CreateUnknownSlug(t *testing.T) {
	db := newTestDB(t)
	contacts := NewContactRepo(db)
	ctx := context.Background()

	_, err := contacts.Create(ctx, "Ana", "+551199999999", []string{"missing"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrNotCreated)
	assert.ErrorIs(t, err, ErrUnknownTag)

	page, err := contacts.List(ctx, "", 0, 20)
	require.NoError(t, err)
	assert.Empty(t, page.Contacts)
	assert.Equal(t, 0, page.PageCount)
}

func TestContactRepo_ListFilter(t *testing.T) {
	db := newTestDB(t)
	contacts := NewContactRepo(db)
	ctx := context.Background()

	for _, c := range []struct{ name, number string }{
		{"Ana Souza", "+5511900000001"},
		{"Bruno", "+5521900000002"},
		{"anabela", "555-0100"},
		{"Carla 100%", "+5531900000003"},
	} {
		_, err := contacts.Create(ctx, c.name, c.number, nil)
		require.NoError(t, err)
	}

	t.Run("empty query matches all, newest first", func(t *testing.T) {
		page, err := contacts.List(ctx, "", 0, 20)
		require.NoError(t, err)
		require.Len(t, page.Contacts, 4)
		assert.Equal(t, "Carla 100%", page.Contacts[0].Name)
		assert.Equal(t, "Ana Souza", page.Contacts[3].Name)
	})

	t.Run("case insensitive on name", func(t *testing.T) {
		page, err := contacts.List(ctx, "ANA", 0, 20)
		require.NoError(t, err)
		assert.Len(t, page.Contacts, 2)
	})

	t.Run("matches contact field", func(t *testing.T) {
		page, err := contacts.List(ctx, "+5521", 0, 20)
		require.NoError(t, err)
		require.Len(t, page.Contacts, 1)
		assert.Equal(t, "Bruno", page.Contacts[0].Name)
	})

	t.Run("wildcards are literal", func(t *testing.T) {
		page, err := contacts.List(ctx, "%", 0, 20)
		require.NoError(t, err)
		require.Len(t, page.Contacts, 1)
		assert.Equal(t, "Carla 100%", page.Contacts[0].Name)

		page, err = contacts.List(ctx, "_", 0, 20)
		require.NoError(t, err)
		assert.Empty(t, page.Contacts)
	})

	t.Run("untagged contacts have no first tag", func(t *testing.T) {
		page, err := contacts.List(ctx, "Bruno", 0, 20)
		require.NoError(t, err)
		require.Len(t, page.Contacts, 1)
		assert.Nil(t, page.Contacts[0].FirstTag())
	})
}

func TestContactRepo_ListFilterNonASCII(t *testing.T) {
	db := newTestDB(t)
	contacts := NewContactRepo(db)
	ctx := context.Background()

	for _, name := range []string{"Ângela Dias", "Álvaro", "ÉRICA", "Ana"} {
		_, err := contacts.Create(ctx, name, "+5511"+name, nil)
		require.NoError(t, err)
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"Ângela", []string{"Ângela Dias"}},
		{"ângela", []string{"Ângela Dias"}},
		{"ÂNG", []string{"Ângela Dias"}},
		{"álv", []string{"Álvaro"}},
		{"Érica", []string{"ÉRICA"}},
		{"érica", []string{"ÉRICA"}},
		{"ana", []string{"Ana"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			page, err := contacts.List(ctx, tt.query, 0, 20)
			require.NoError(t, err)

			names := make([]string, 0, len(page.Contacts))
			for _, c := range page.Contacts {
				names = append(names, c.Name)
			}
			assert.ElementsMatch(t, tt.want, names)
			assert.EqualValues(t, len(tt.want), page.Total)
		})
	}
}

func TestContactRepo_ListPageIndexOverflow(t *testing.T) {
	db := newTestDB(t)
	contacts := NewContactRepo(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := contacts.Create(ctx, fmt.Sprintf("Person %d", i), "111", nil)
		require.NoError(t, err)
	}

	page, err := contacts.List(ctx, "", 1<<62, 4)
	require.NoError(t, err)
	assert.Empty(t, page.Contacts)
	assert.NotNil(t, page.Contacts)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 1, page.PageCount)
}

func TestContactRepo_Pagination(t *testing.T) {
	db := newTestDB(t)
	contacts := NewContactRepo(db)
	ctx := context.Background()

	const total = 7
	for i := 0; i < total; i++ {
		_, err := contacts.Create(ctx, fmt.Sprintf("Person %d", i), fmt.Sprintf("+55119000000%02d", i), nil)
		require.NoError(t, err)
	}
	_, err := contacts.Create(ctx, "Zed", "999", nil)
	require.NoError(t, err)

	const pageSize = 3
	first, err := contacts.List(ctx, "Person", 0, pageSize)
	require.NoError(t, err)
	assert.Equal(t, 3, first.PageCount)
	assert.EqualValues(t, total, first.Total)

	seen := map[uuid.UUID]bool{}
	for pageIndex := 0; pageIndex < first.PageCount; pageIndex++ {
		page, err := contacts.List(ctx, "Person", pageIndex, pageSize)
		require.NoError(t, err)
		assert.Equal(t, first.PageCount, page.PageCount)
		for _, c := range page.Contacts {
			assert.False(t, seen[c.ID], "duplicate contact %s across pages", c.ID)
			seen[c.ID] = true
		}
	}
	assert.Len(t, seen, total)

	beyond, err := contacts.List(ctx, "Person", first.PageCount, pageSize)
	require.NoError(t, err)
	assert.Empty(t, beyond.Contacts)
}

func TestContactRepo_ListDefaultsPageSize(t *testing.T) {
	db := newTestDB(t)
	contacts := NewContactRepo(db)
	ctx := context.Background()

	for i := 0; i < DefaultPageSize+1; i++ {
		_, err := contacts.Create(ctx, fmt.Sprintf("P%02d", i), "12345", nil)
		require.NoError(t, err)
	}

	page, err := contacts.List(ctx, "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, page.Contacts, DefaultPageSize)
	assert.Equal(t, 2, page.PageCount)
}

func TestContactRepo_ListUsesRequestCache(t *testing.T) {
	db := newTestDB(t)
	contacts := NewContactRepo(db)
	ctx := reqcache.WithCache(context.Background(), reqcache.New())

	_, err := contacts.Create(ctx, "Ana", "111", nil)
	require.NoError(t, err)

	before, err := contacts.List(ctx, "", 0, 20)
	require.NoError(t, err)
	require.Len(t, before.Contacts, 1)

	_, err = contacts.Create(ctx, "Bia", "222", nil)
	require.NoError(t, err)

	memoized, err := contacts.List(ctx, "", 0, 20)
	require.NoError(t, err)
	assert.Len(t, memoized.Contacts, 1)

	fresh, err := contacts.List(context.Background(), "", 0, 20)
	require.NoError(t, err)
	assert.Len(t, fresh.Contacts, 2)
}

func TestContactRepo_UpdateByID(t *testing.T) {
	db := newTestDB(t)
	tags := NewTagRepo(db)
	contacts := NewContactRepo(db)
	ctx := context.Background()

	_, err := tags.Create(ctx, "familia", "#E2E2E2")
	require.NoError(t, err)
	_, err = tags.Create(ctx, "trabalho", "#00FF00")
	require.NoError(t, err)

	created, err := contacts.Create(ctx, "Ana", "111", []string{"familia"})
	require.NoError(t, err)

	t.Run("overwrites fields and adds tags", func(t *testing.T) {
		updated, err := contacts.UpdateByID(ctx, created.ID, "Ana Maria", "222", []string{"trabalho"})
		require.NoError(t, err)
		assert.Equal(t, "Ana Maria", updated.Name)
		assert.Equal(t, "222", updated.Contact)

		slugs := make([]string, 0, len(updated.Tags))
		for _, tag := range updated.Tags {
			slugs = append(slugs, tag.Slug)
		}
		assert.ElementsMatch(t, []string{"familia", "trabalho"}, slugs)
	})

	t.Run("is idempotent", func(t *testing.T) {
		_, err := contacts.UpdateByID(ctx, created.ID, "Ana Maria", "222", []string{"trabalho"})
		require.NoError(t, err)

		found, err := contacts.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Len(t, found.Tags, 2)
		assert.EqualValues(t, 2, countJoinRows(t, db))
	})

	t.Run("missing contact", func(t *testing.T) {
		_, err := contacts.UpdateByID(ctx, uuid.New(), "Nobody", "000", []string{"familia"})
		assert.ErrorIs(t, err, errs.ErrNotFound)
		assert.NotErrorIs(t, err, ErrUnknownTag)
	})

	t.Run("unknown tag leaves contact unchanged", func(t *testing.T) {
		_, err := contacts.UpdateByID(ctx, created.ID, "Changed", "999", []string{"ghost"})
		assert.ErrorIs(t, err, ErrUnknownTag)

		found, err := contacts.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ana Maria", found.Name)
	})
}

func TestContactRepo_DeleteByID(t *testing.T) {
	db := newTestDB(t)
	tags := NewTagRepo(db)
	contacts := NewContactRepo(db)
	ctx := context.Background()

	_, err := tags.Create(ctx, "familia", "#E2E2E2")
	require.NoError(t, err)
	created, err := contacts.Create(ctx, "Ana", "111", []string{"familia"})
	require.NoError(t, err)
	require.EqualValues(t, 1, countJoinRows(t, db))

	require.NoError(t, contacts.DeleteByID(ctx, created.ID))
	assert.EqualValues(t, 0, countJoinRows(t, db))

	_, err = contacts.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	all, err := tags.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.EqualValues(t, 0, all[0].Count)

	err = contacts.DeleteByID(ctx, created.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
