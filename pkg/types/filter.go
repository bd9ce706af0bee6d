package types

type Filter struct {
	Search         string
	Sort           map[string]string
	Filter         map[string]interface{}
	Limit          int
	Offset         int
	Page           int
	WithPagination bool
}
