package folder

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/notably-app/notably/internal/domain"
	domfolder "github.com/notably-app/notably/internal/domain/folder"
)

// memRepo keeps folders in insertion order like the real listing does.
type memRepo struct {
	folders []domfolder.Folder
}

func (r *memRepo) Save(_ context.Context, f *domfolder.Folder) error {
	for i := range r.folders {
		if r.folders[i].ID == f.ID {
			r.folders[i] = *f
			return nil
		}
	}
	r.folders = append(r.folders, *f)
	return nil
}

func (r *memRepo) Get(_ context.Context, ownerID, folderID string) (domfolder.Folder, error) {
	for _, f := range r.folders {
		if f.ID == folderID && f.OwnerID == ownerID {
			return f, nil
		}
	}
	return domfolder.Folder{}, domain.ErrFolderNotFound
}

func (r *memRepo) ListByOwner(_ context.Context, ownerID string) ([]domfolder.Folder, error) {
	var out []domfolder.Folder
	for _, f := range r.folders {
		if f.OwnerID == ownerID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *memRepo) Delete(_ context.Context, ownerID, folderID string) error {
	for i, f := range r.folders {
		if f.ID == folderID && f.OwnerID == ownerID {
			r.folders = append(r.folders[:i], r.folders[i+1:]...)
			return nil
		}
	}
	return domain.ErrFolderNotFound
}

func seed(t *testing.T, svc *Service, name, parentID string) domfolder.Folder {
	t.Helper()
	f, err := svc.Create(context.Background(), "user-1", Input{Name: name, ParentID: parentID})
	if err != nil {
		t.Fatalf("Create(%s) error = %v", name, err)
	}
	return f
}

func TestCreate_UnknownParentRejected(t *testing.T) {
	svc := New(&memRepo{}, zap.NewNop())
	_, err := svc.Create(context.Background(), "user-1", Input{Name: "child", ParentID: "missing"})
	if !errors.Is(err, domain.ErrFolderNotFound) {
		t.Fatalf("error = %v, want ErrFolderNotFound", err)
	}
}

func TestTree_AssemblesHierarchy(t *testing.T) {
	svc := New(&memRepo{}, zap.NewNop())
	root := seed(t, svc, "Work", "")
	child := seed(t, svc, "Reports", root.ID)
	seed(t, svc, "Personal", "")

	tree, err := svc.Tree(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Tree() error = %v", err)
	}
	if len(tree) != 2 {
		t.Fatalf("got %d roots, want 2", len(tree))
	}
	if tree[0].Folder.ID != root.ID || len(tree[0].Children) != 1 {
		t.Fatalf("first root = %+v", tree[0])
	}
	if tree[0].Children[0].Folder.ID != child.ID {
		t.Errorf("child = %q", tree[0].Children[0].Folder.ID)
	}
}

func TestUpdate_MoveUnderOwnDescendantRejected(t *testing.T) {
	svc := New(&memRepo{}, zap.NewNop())
	a := seed(t, svc, "a", "")
	b := seed(t, svc, "b", a.ID)
	c := seed(t, svc, "c", b.ID)

	_, err := svc.Update(context.Background(), "user-1", a.ID, Input{Name: "a", ParentID: c.ID})
	if !errors.Is(err, domain.ErrFolderCycle) {
		t.Fatalf("error = %v, want ErrFolderCycle", err)
	}
}

func TestUpdate_MoveUnderSelfRejected(t *testing.T) {
	svc := New(&memRepo{}, zap.NewNop())
	a := seed(t, svc, "a", "")

	_, err := svc.Update(context.Background(), "user-1", a.ID, Input{Name: "a", ParentID: a.ID})
	if !errors.Is(err, domain.ErrFolderCycle) {
		t.Fatalf("error = %v, want ErrFolderCycle", err)
	}
}

func TestUpdate_ValidMove(t *testing.T) {
	svc := New(&memRepo{}, zap.NewNop())
	a := seed(t, svc, "a", "")
	b := seed(t, svc, "b", "")
	c := seed(t, svc, "c", a.ID)

	got, err := svc.Update(context.Background(), "user-1", c.ID, Input{Name: "c", ParentID: b.ID})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.ParentID != b.ID {
		t.Errorf("parent = %q, want %q", got.ParentID, b.ID)
	}

	tree, _ := svc.Tree(context.Background(), "user-1")
	if len(tree) != 2 || len(tree[1].Children) != 1 || tree[1].Children[0].Folder.ID != c.ID {
		t.Errorf("tree after move = %+v", tree)
	}
}

func TestMove_ReparentsAndChecksCycles(t *testing.T) {
	svc := New(&memRepo{}, zap.NewNop())
	a := seed(t, svc, "a", "")
	b := seed(t, svc, "b", a.ID)

	got, err := svc.Move(context.Background(), "user-1", b.ID, "")
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if got.ParentID != "" {
		t.Errorf("parent = %q, want root", got.ParentID)
	}

	if _, err := svc.Move(context.Background(), "user-1", a.ID, a.ID); !errors.Is(err, domain.ErrFolderCycle) {
		t.Fatalf("error = %v, want ErrFolderCycle", err)
	}
}

func TestDelete_ChildrenBecomeRoots(t *testing.T) {
	svc := New(&memRepo{}, zap.NewNop())
	a := seed(t, svc, "a", "")
	b := seed(t, svc, "b", a.ID)

	if err := svc.Delete(context.Background(), "user-1", a.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	tree, err := svc.Tree(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Tree() error = %v", err)
	}
	if len(tree) != 1 || tree[0].Folder.ID != b.ID {
		t.Fatalf("tree = %+v, want orphan promoted to root", tree)
	}
}

func TestGet_WrongOwner(t *testing.T) {
	svc := New(&memRepo{}, zap.NewNop())
	a := seed(t, svc, "a", "")

	if _, err := svc.Get(context.Background(), "user-2", a.ID); !errors.Is(err, domain.ErrFolderNotFound) {
		t.Fatalf("error = %v, want ErrFolderNotFound", err)
	}
}
