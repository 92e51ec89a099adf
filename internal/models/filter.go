package models

// ArticleFilter описывает выборку статей, передаваемую в слой хранения.
type ArticleFilter struct {
	Status    *ArticleStatus // nil — любой статус
	Publisher string         // пустая строка — без фильтра
	Tag       string         // пустая строка — без фильтра
	Limit     int
	Offset    int
}
