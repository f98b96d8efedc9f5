package note

import (
	"encoding/binary"
	"math"
	"strconv"

	domnote "github.com/notably-app/notably/internal/domain/note"
)

// buildHashFields converts a domain Note into a flat map[string]string for HSET.
func buildHashFields(n *domnote.Note) map[string]string {
	return map[string]string{
		"owner":      n.OwnerID,
		"title":      n.Title,
		"content":    n.Content,
		"folder_id":  n.FolderID,
		"project_id": n.ProjectID,
		"client_id":  n.ClientID,
		"vector":     vectorToBytes(n.Vector),
		"created_at": strconv.FormatInt(n.CreatedAt, 10),
		"updated_at": strconv.FormatInt(n.UpdatedAt, 10),
	}
}

// parseHashFields converts a flat hash map back into a domain Note.
func parseHashFields(id string, m map[string]string) domnote.Note {
	createdAt, _ := strconv.ParseInt(m["created_at"], 10, 64)
	updatedAt, _ := strconv.ParseInt(m["updated_at"], 10, 64)
	return domnote.Note{
		ID:        id,
		OwnerID:   m["owner"],
		Title:     m["title"],
		Content:   m["content"],
		FolderID:  m["folder_id"],
		ProjectID: m["project_id"],
		ClientID:  m["client_id"],
		Vector:    bytesToVector(m["vector"]),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// bytesToVector deserializes a binary string back to []float32.
func bytesToVector(s string) []float32 {
	b := []byte(s)
	if len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
