// Package query строит описание выборки из необязательных критериев фильтрации
// и параметров пагинации. Преобразование чистое и детерминированное.
package query

// Параметры пагинации по умолчанию.
const (
	DefaultPage     = 1
	DefaultPageSize = 8
	MaxPageSize     = 100
)

// Op - операция сравнения предиката.
type Op string

// Поддерживаемые операции.
const (
	OpEq  Op = "="
	OpGte Op = ">="
	OpLte Op = "<="
)

// Имена полей, по которым строятся предикаты.
const (
	FieldMake           = "make"
	FieldModel          = "model"
	FieldYear           = "year"
	FieldPrice          = "price"
	FieldShippingStatus = "shipping_status"
)

// CarFilter - транзитный объект запроса: страница плюс необязательные критерии.
// Нулевые значения не накладывают ограничений.
type CarFilter struct {
	Page           int
	PageSize       int
	Make           string
	Model          string
	Year           int
	MinPrice       *float64
	MaxPrice       *float64
	ShippingStatus string
}

// Predicate - одно типизированное ограничение выборки.
type Predicate struct {
	Field string
	Op    Op
	Value interface{}
}

// Window - окно пагинации.
type Window struct {
	Skip  int
	Limit int
}

// Normalize приводит параметры пагинации к допустимым значениям.
func (f CarFilter) Normalize() CarFilter {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	return f
}

// Build преобразует фильтр в список предикатов и окно пагинации.
// Отсутствующие и пустые критерии не превращаются в сравнение с пустым
// значением: они просто не порождают предикат.
func Build(f CarFilter) ([]Predicate, Window) {
	f = f.Normalize()

	predicates := make([]Predicate, 0)

	if f.Make != "" {
		predicates = append(predicates, Predicate{Field: FieldMake, Op: OpEq, Value: f.Make})
	}
	if f.Model != "" {
		predicates = append(predicates, Predicate{Field: FieldModel, Op: OpEq, Value: f.Model})
	}
	if f.Year != 0 {
		predicates = append(predicates, Predicate{Field: FieldYear, Op: OpEq, Value: f.Year})
	}
	if f.MinPrice != nil {
		predicates = append(predicates, Predicate{Field: FieldPrice, Op: OpGte, Value: *f.MinPrice})
	}
	if f.MaxPrice != nil {
		predicates = append(predicates, Predicate{Field: FieldPrice, Op: OpLte, Value: *f.MaxPrice})
	}
	if f.ShippingStatus != "" {
		predicates = append(predicates, Predicate{Field: FieldShippingStatus, Op: OpEq, Value: f.ShippingStatus})
	}

	window := Window{
		Skip:  (f.Page - 1) * f.PageSize,
		Limit: f.PageSize,
	}

	return predicates, window
}
