package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shemnduati/personal-portfolio-sub000/internal/db"
	"github.com/shemnduati/personal-portfolio-sub000/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupBlogServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:blog-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.Category{}, &db.Tag{}, &db.Blog{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return gdb
}

func newBlogServiceForTest(t *testing.T) (*BlogService, *gorm.DB, *storage.Disk, uint) {
	t.Helper()
	gdb := setupBlogServiceTestDB(t)
	store := storage.NewDisk(t.TempDir(), "/storage")
	svc := NewBlogService(gdb, store)

	category := db.Category{Name: "General", Slug: "general"}
	if err := gdb.Create(&category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return svc, gdb, store, category.ID
}

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }

func countStoredFiles(t *testing.T, root string) int {
	t.Helper()
	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk store root: %v", err)
	}
	return count
}

func TestBlogService_CreateAllocatesSlugSuffixes(t *testing.T) {
	svc, _, _, categoryID := newBlogServiceForTest(t)
	ctx := context.Background()

	want := []string{"hello-world", "hello-world-1", "hello-world-2"}
	for _, expected := range want {
		blog, err := svc.Create(ctx, BlogInput{
			Title:      "Hello World",
			Content:    "<p>body</p>",
			CategoryID: categoryID,
		})
		if err != nil {
			t.Fatalf("create blog: %v", err)
		}
		if blog.Slug != expected {
			t.Fatalf("expected slug %q, got %q", expected, blog.Slug)
		}
	}
}

func TestBlogService_CreateValidation(t *testing.T) {
	svc, _, _, categoryID := newBlogServiceForTest(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, BlogInput{Content: "body", CategoryID: categoryID}); !errors.Is(err, ErrBlogTitleMissing) {
		t.Fatalf("expected ErrBlogTitleMissing, got %v", err)
	}
	if _, err := svc.Create(ctx, BlogInput{Title: "t", CategoryID: categoryID}); !errors.Is(err, ErrBlogBodyMissing) {
		t.Fatalf("expected ErrBlogBodyMissing, got %v", err)
	}
	if _, err := svc.Create(ctx, BlogInput{Title: "t", Content: "body"}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound for zero category, got %v", err)
	}
	if _, err := svc.Create(ctx, BlogInput{Title: "t", Content: "body", CategoryID: 999}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound for unknown category, got %v", err)
	}
}

func TestBlogService_PublishStateTracksTimestamp(t *testing.T) {
	svc, _, _, categoryID := newBlogServiceForTest(t)
	ctx := context.Background()

	blog, err := svc.Create(ctx, BlogInput{
		Title:      "Draft",
		Content:    "<p>body</p>",
		CategoryID: categoryID,
	})
	if err != nil {
		t.Fatalf("create blog: %v", err)
	}
	if blog.IsPublished || blog.PublishedAt != nil {
		t.Fatalf("new blog should be an unpublished draft")
	}

	published, err := svc.Update(ctx, blog.ID, BlogInput{
		CategoryID:  categoryID,
		IsPublished: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("publish blog: %v", err)
	}
	if !published.IsPublished || published.PublishedAt == nil {
		t.Fatalf("published blog must carry a publish timestamp")
	}
	firstPublish := *published.PublishedAt

	// Saving again while already published must keep the original timestamp.
	stillPublished, err := svc.Update(ctx, blog.ID, BlogInput{
		CategoryID:  categoryID,
		IsPublished: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("republish blog: %v", err)
	}
	if stillPublished.PublishedAt == nil || !stillPublished.PublishedAt.Equal(firstPublish) {
		t.Fatalf("publish timestamp changed on a no-op publish")
	}

	unpublished, err := svc.Update(ctx, blog.ID, BlogInput{
		CategoryID:  categoryID,
		IsPublished: boolPtr(false),
	})
	if err != nil {
		t.Fatalf("unpublish blog: %v", err)
	}
	if unpublished.IsPublished || unpublished.PublishedAt != nil {
		t.Fatalf("unpublished blog must clear its publish timestamp")
	}
}

func TestBlogService_TagSyncReusesExistingRows(t *testing.T) {
	svc, gdb, _, categoryID := newBlogServiceForTest(t)
	ctx := context.Background()

	blog, err := svc.Create(ctx, BlogInput{
		Title:      "Tagged",
		Content:    "<p>body</p>",
		CategoryID: categoryID,
		Tags:       []string{"go", "web"},
	})
	if err != nil {
		t.Fatalf("create blog: %v", err)
	}
	if len(blog.Tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(blog.Tags))
	}

	var webTag db.Tag
	if err := gdb.Where("name = ?", "web").First(&webTag).Error; err != nil {
		t.Fatalf("find web tag: %v", err)
	}

	updated, err := svc.Update(ctx, blog.ID, BlogInput{
		CategoryID: categoryID,
		Tags:       []string{"web", "sqlite"},
	})
	if err != nil {
		t.Fatalf("update tags: %v", err)
	}
	if len(updated.Tags) != 2 {
		t.Fatalf("expected 2 tags after sync, got %d", len(updated.Tags))
	}

	names := map[string]uint{}
	for _, tag := range updated.Tags {
		names[tag.Name] = tag.ID
	}
	if _, ok := names["go"]; ok {
		t.Fatalf("tag go should have been detached")
	}
	if id, ok := names["web"]; !ok || id != webTag.ID {
		t.Fatalf("tag web should reuse its existing row, got id %d want %d", id, webTag.ID)
	}
	if _, ok := names["sqlite"]; !ok {
		t.Fatalf("tag sqlite should have been created")
	}
}

func TestBlogService_NilTagsLeavesSetUnchanged(t *testing.T) {
	svc, _, _, categoryID := newBlogServiceForTest(t)
	ctx := context.Background()

	blog, err := svc.Create(ctx, BlogInput{
		Title:      "Keep Tags",
		Content:    "<p>body</p>",
		CategoryID: categoryID,
		Tags:       []string{"go"},
	})
	if err != nil {
		t.Fatalf("create blog: %v", err)
	}

	unchanged, err := svc.Update(ctx, blog.ID, BlogInput{CategoryID: categoryID, Tags: nil})
	if err != nil {
		t.Fatalf("update without tags: %v", err)
	}
	if len(unchanged.Tags) != 1 || unchanged.Tags[0].Name != "go" {
		t.Fatalf("nil tags must leave the attached set unchanged, got %v", unchanged.Tags)
	}

	cleared, err := svc.Update(ctx, blog.ID, BlogInput{CategoryID: categoryID, Tags: []string{}})
	if err != nil {
		t.Fatalf("update with empty tags: %v", err)
	}
	if len(cleared.Tags) != 0 {
		t.Fatalf("empty tag slice must detach everything, got %v", cleared.Tags)
	}
}

func TestBlogService_ImageReplaceDeletesOldFile(t *testing.T) {
	svc, _, store, categoryID := newBlogServiceForTest(t)
	ctx := context.Background()

	blog, err := svc.Create(ctx, BlogInput{
		Title:      "Pictured",
		Content:    "<p>body</p>",
		CategoryID: categoryID,
		Image:      &FileUpload{Filename: "first.png", Content: strings.NewReader("first")},
	})
	if err != nil {
		t.Fatalf("create blog: %v", err)
	}
	oldPath := blog.FeaturedImage
	if oldPath == "" || !store.Exists(ctx, oldPath) {
		t.Fatalf("featured image was not stored")
	}

	updated, err := svc.Update(ctx, blog.ID, BlogInput{
		CategoryID: categoryID,
		Image:      &FileUpload{Filename: "second.png", Content: strings.NewReader("second")},
	})
	if err != nil {
		t.Fatalf("update blog: %v", err)
	}
	if updated.FeaturedImage == oldPath {
		t.Fatalf("featured image path should change on replace")
	}
	if store.Exists(ctx, oldPath) {
		t.Fatalf("old image must be deleted after a successful replace")
	}
	if !store.Exists(ctx, updated.FeaturedImage) {
		t.Fatalf("new image must exist after replace")
	}
}

func TestBlogService_FailedUpdateDiscardsStagedImage(t *testing.T) {
	svc, _, store, categoryID := newBlogServiceForTest(t)
	ctx := context.Background()

	blog, err := svc.Create(ctx, BlogInput{
		Title:      "Pictured",
		Content:    "<p>body</p>",
		CategoryID: categoryID,
		Image:      &FileUpload{Filename: "keep.png", Content: strings.NewReader("keep")},
	})
	if err != nil {
		t.Fatalf("create blog: %v", err)
	}
	oldPath := blog.FeaturedImage

	_, err = svc.Update(ctx, blog.ID, BlogInput{
		CategoryID: 999,
		Image:      &FileUpload{Filename: "staged.png", Content: strings.NewReader("staged")},
	})
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}

	if !store.Exists(ctx, oldPath) {
		t.Fatalf("old image must survive a failed update")
	}
	if n := countStoredFiles(t, store.Root()); n != 1 {
		t.Fatalf("staged image must be discarded after a failed update, found %d files", n)
	}

	reloaded, err := svc.Get(blog.ID)
	if err != nil {
		t.Fatalf("reload blog: %v", err)
	}
	if reloaded.FeaturedImage != oldPath {
		t.Fatalf("failed update must not change the stored image path")
	}
}

func TestBlogService_DeleteRemovesRowTagsAndImage(t *testing.T) {
	svc, gdb, store, categoryID := newBlogServiceForTest(t)
	ctx := context.Background()

	blog, err := svc.Create(ctx, BlogInput{
		Title:      "Doomed",
		Content:    "<p>body</p>",
		CategoryID: categoryID,
		Tags:       []string{"temp"},
		Image:      &FileUpload{Filename: "gone.png", Content: strings.NewReader("gone")},
	})
	if err != nil {
		t.Fatalf("create blog: %v", err)
	}

	if err := svc.Delete(ctx, blog.ID); err != nil {
		t.Fatalf("delete blog: %v", err)
	}

	if _, err := svc.Get(blog.ID); !errors.Is(err, ErrBlogNotFound) {
		t.Fatalf("expected ErrBlogNotFound after delete, got %v", err)
	}
	if store.Exists(ctx, blog.FeaturedImage) {
		t.Fatalf("featured image must be deleted with the blog")
	}

	var linkCount int64
	if err := gdb.Table("blog_tags").Where("blog_id = ?", blog.ID).Count(&linkCount).Error; err != nil {
		t.Fatalf("count tag links: %v", err)
	}
	if linkCount != 0 {
		t.Fatalf("tag links must be cleared on delete, found %d", linkCount)
	}

	if err := svc.Delete(ctx, blog.ID); !errors.Is(err, ErrBlogNotFound) {
		t.Fatalf("second delete should report ErrBlogNotFound, got %v", err)
	}
}

func TestBlogService_HTMLContentIsSanitized(t *testing.T) {
	svc, _, _, categoryID := newBlogServiceForTest(t)
	ctx := context.Background()

	blog, err := svc.Create(ctx, BlogInput{
		Title:      "Scripted",
		Content:    `<p>fine</p><script>alert("x")</script>`,
		CategoryID: categoryID,
	})
	if err != nil {
		t.Fatalf("create blog: %v", err)
	}
	if strings.Contains(blog.Content, "<script>") {
		t.Fatalf("script tags must be stripped from html content, got %q", blog.Content)
	}
	if !strings.Contains(blog.Content, "<p>fine</p>") {
		t.Fatalf("safe markup must survive sanitization, got %q", blog.Content)
	}
}

func TestBlogService_MarkdownContentIsStoredRaw(t *testing.T) {
	svc, _, _, categoryID := newBlogServiceForTest(t)
	ctx := context.Background()

	source := "# Title\n\nSome *markdown* body."
	blog, err := svc.Create(ctx, BlogInput{
		Title:         "Markdown",
		Content:       source,
		ContentFormat: db.ContentFormatMarkdown,
		CategoryID:    categoryID,
	})
	if err != nil {
		t.Fatalf("create blog: %v", err)
	}
	if blog.Content != source {
		t.Fatalf("markdown source must be stored verbatim, got %q", blog.Content)
	}
	if blog.ContentFormat != db.ContentFormatMarkdown {
		t.Fatalf("content format = %q, want markdown", blog.ContentFormat)
	}
}

func TestBlogService_ListPublishedPaginatesNewestFirst(t *testing.T) {
	svc, gdb, _, categoryID := newBlogServiceForTest(t)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		blog := db.Blog{
			Title:       fmt.Sprintf("Post %d", i),
			Slug:        fmt.Sprintf("post-%d", i),
			Content:     "body",
			CategoryID:  categoryID,
			IsPublished: true,
			PublishedAt: &at,
		}
		if err := gdb.Create(&blog).Error; err != nil {
			t.Fatalf("seed blog: %v", err)
		}
	}
	draft := db.Blog{Title: "Draft", Slug: "draft", Content: "body", CategoryID: categoryID}
	if err := gdb.Create(&draft).Error; err != nil {
		t.Fatalf("seed draft: %v", err)
	}

	page, err := svc.ListPublished(1, 2)
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if page.Total != 5 {
		t.Fatalf("draft leaked into published total: got %d, want 5", page.Total)
	}
	if page.TotalPages != 3 {
		t.Fatalf("total pages = %d, want 3", page.TotalPages)
	}
	if len(page.Blogs) != 2 || page.Blogs[0].Slug != "post-4" || page.Blogs[1].Slug != "post-3" {
		t.Fatalf("unexpected first page order: %v", page.Blogs)
	}

	last, err := svc.ListPublished(3, 2)
	if err != nil {
		t.Fatalf("list last page: %v", err)
	}
	if len(last.Blogs) != 1 || last.Blogs[0].Slug != "post-0" {
		t.Fatalf("unexpected last page: %v", last.Blogs)
	}
}

func TestBlogService_GetBySlugAdjacency(t *testing.T) {
	svc, gdb, _, categoryID := newBlogServiceForTest(t)

	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	slugs := []string{"oldest", "middle", "newest"}
	for i, slug := range slugs {
		at := base.Add(time.Duration(i) * time.Hour)
		blog := db.Blog{
			Title:       slug,
			Slug:        slug,
			Content:     "body",
			CategoryID:  categoryID,
			IsPublished: true,
			PublishedAt: &at,
		}
		if err := gdb.Create(&blog).Error; err != nil {
			t.Fatalf("seed blog: %v", err)
		}
	}

	detail, err := svc.GetBySlug("middle")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if detail.Previous == nil || detail.Previous.Slug != "oldest" {
		t.Fatalf("previous should be oldest, got %v", detail.Previous)
	}
	if detail.Next == nil || detail.Next.Slug != "newest" {
		t.Fatalf("next should be newest, got %v", detail.Next)
	}

	oldest, err := svc.GetBySlug("oldest")
	if err != nil {
		t.Fatalf("get oldest: %v", err)
	}
	if oldest.Previous != nil {
		t.Fatalf("oldest post has no previous, got %v", oldest.Previous)
	}

	if _, err := svc.GetBySlug("missing"); !errors.Is(err, ErrBlogNotFound) {
		t.Fatalf("expected ErrBlogNotFound, got %v", err)
	}
}

func TestBlogService_TiedTimestampsOrderById(t *testing.T) {
	svc, gdb, _, categoryID := newBlogServiceForTest(t)

	at := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	slugs := []string{"tied-a", "tied-b", "tied-c"}
	for _, slug := range slugs {
		blog := db.Blog{
			Title:       slug,
			Slug:        slug,
			Content:     "body",
			CategoryID:  categoryID,
			IsPublished: true,
			PublishedAt: &at,
		}
		if err := gdb.Create(&blog).Error; err != nil {
			t.Fatalf("seed blog %q: %v", slug, err)
		}
	}

	// Listing breaks the timestamp tie on id, newest insert first.
	page, err := svc.ListPublished(1, 10)
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(page.Blogs) != 3 ||
		page.Blogs[0].Slug != "tied-c" ||
		page.Blogs[1].Slug != "tied-b" ||
		page.Blogs[2].Slug != "tied-a" {
		t.Fatalf("unexpected tied order: %v", page.Blogs)
	}

	// Adjacency must agree with the listing order.
	detail, err := svc.GetBySlug("tied-b")
	if err != nil {
		t.Fatalf("get tied-b: %v", err)
	}
	if detail.Previous == nil || detail.Previous.Slug != "tied-a" {
		t.Fatalf("previous of tied-b should be tied-a, got %v", detail.Previous)
	}
	if detail.Next == nil || detail.Next.Slug != "tied-c" {
		t.Fatalf("next of tied-b should be tied-c, got %v", detail.Next)
	}

	first, err := svc.GetBySlug("tied-a")
	if err != nil {
		t.Fatalf("get tied-a: %v", err)
	}
	if first.Previous != nil {
		t.Fatalf("tied-a has no previous, got %v", first.Previous)
	}
	last, err := svc.GetBySlug("tied-c")
	if err != nil {
		t.Fatalf("get tied-c: %v", err)
	}
	if last.Next != nil {
		t.Fatalf("tied-c has no next, got %v", last.Next)
	}
}

func TestBlogService_UpdateOptionalTextFields(t *testing.T) {
	svc, _, _, categoryID := newBlogServiceForTest(t)
	ctx := context.Background()

	blog, err := svc.Create(ctx, BlogInput{
		Title:      "Post",
		Content:    "<p>body</p>",
		Excerpt:    strPtr("summary"),
		MetaTitle:  strPtr("meta"),
		CategoryID: categoryID,
	})
	if err != nil {
		t.Fatalf("create blog: %v", err)
	}

	// Absent optional fields leave the stored values alone.
	kept, err := svc.Update(ctx, blog.ID, BlogInput{CategoryID: categoryID})
	if err != nil {
		t.Fatalf("update without optional fields: %v", err)
	}
	if kept.Excerpt != "summary" || kept.MetaTitle != "meta" {
		t.Fatalf("absent fields must keep values, got excerpt=%q meta=%q", kept.Excerpt, kept.MetaTitle)
	}

	// Submitting them empty clears.
	cleared, err := svc.Update(ctx, blog.ID, BlogInput{
		CategoryID: categoryID,
		Excerpt:    strPtr(""),
		MetaTitle:  strPtr(""),
	})
	if err != nil {
		t.Fatalf("update with empty fields: %v", err)
	}
	if cleared.Excerpt != "" || cleared.MetaTitle != "" {
		t.Fatalf("empty fields must clear values, got excerpt=%q meta=%q", cleared.Excerpt, cleared.MetaTitle)
	}
}

func TestBlogService_GetBySlugIgnoresDrafts(t *testing.T) {
	svc, gdb, _, categoryID := newBlogServiceForTest(t)

	draft := db.Blog{Title: "Hidden", Slug: "hidden", Content: "body", CategoryID: categoryID}
	if err := gdb.Create(&draft).Error; err != nil {
		t.Fatalf("seed draft: %v", err)
	}

	if _, err := svc.GetBySlug("hidden"); !errors.Is(err, ErrBlogNotFound) {
		t.Fatalf("drafts must not be reachable by slug, got %v", err)
	}
}
