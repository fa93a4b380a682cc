package comment

import "collab-service/model"

// Node is a comment carrying its nested replies.
type Node struct {
	model.Comment
	Replies []*Node `json:"replies"`
}

// BuildHierarchy turns a flat, time-ascending comment list into top-level
// nodes with nested reply trees, preserving the original order. Two linear
// passes: index every comment with an empty reply list, then attach each
// to its parent when the parent is in the set. A comment whose parent is
// missing surfaces as top-level rather than being hidden; that keeps rows
// visible if they ever race a cascade delete.
func BuildHierarchy(comments []model.Comment) []*Node {
	index := make(map[uint]*Node, len(comments))
	ordered := make([]*Node, 0, len(comments))
	for i := range comments {
		node := &Node{Comment: comments[i], Replies: []*Node{}}
		index[comments[i].ID] = node
		ordered = append(ordered, node)
	}

	top := []*Node{}
	for _, node := range ordered {
		if node.ParentCommentID != nil {
			if parent, ok := index[*node.ParentCommentID]; ok {
				parent.Replies = append(parent.Replies, node)
				continue
			}
		}
		top = append(top, node)
	}
	return top
}

// PaginateTopLevel pages the top-level list after the tree is built; reply
// counts cannot be known before construction, so total and page count are
// computed from top-level nodes only. Page is 1-based.
func PaginateTopLevel(top []*Node, page, perPage int) ([]*Node, int, int) {
	total := len(top)
	if perPage <= 0 {
		perPage = 10
	}
	if page <= 0 {
		page = 1
	}

	pages := (total + perPage - 1) / perPage

	start := (page - 1) * perPage
	if start >= total {
		return []*Node{}, total, pages
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return top[start:end], total, pages
}
