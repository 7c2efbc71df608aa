package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libratrack/lms/internal/errs"
	"github.com/libratrack/lms/internal/model"
)

const bookColumns = `id, title, author_id, category_id, publisher_id, isbn, publication_date,
	number_of_pages, description, available_copies, total_copies, is_borrowed`

func (r *repository) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	q, args, err := qb.Insert(booksTableName).
		Columns("title", "author_id", "category_id", "publisher_id", "isbn", "publication_date",
			"number_of_pages", "description", "available_copies", "total_copies").
		Values(req.Title, req.AuthorID, req.CategoryID, req.PublisherID, req.ISBN, req.PublicationDate,
			req.NumberOfPages, req.Description, req.AvailableCopies, req.TotalCopies).
		Suffix("returning " + bookColumns).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		if isUniqueViolation(err) {
			return model.Book{}, errs.ErrDuplicate
		}
		r.log.Error("CreateBook", zap.String("q", q), zap.Any("args", args))
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) GetBook(ctx context.Context, id int) (model.Book, error) {
	q, args, err := qb.Select(bookColumns).
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) ListBooks(ctx context.Context, filter model.BookFilter, page, size int) ([]model.Book, error) {
	q := qb.Select(bookColumns).
		From(booksTableName).
		OrderBy("id")
	if filter.AuthorID != nil {
		q = q.Where(sq.Eq{"author_id": *filter.AuthorID})
	}
	if filter.CategoryID != nil {
		q = q.Where(sq.Eq{"category_id": *filter.CategoryID})
	}
	if filter.Title != "" {
		q = q.Where(sq.ILike{"title": "%" + filter.Title + "%"})
	}
	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	books := make([]model.Book, 0)
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *repository) ListAvailableBooks(ctx context.Context) ([]model.Book, error) {
	q, args, err := qb.Select(bookColumns).
		From(booksTableName).
		Where(sq.Eq{"is_borrowed": false}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	books := make([]model.Book, 0)
	if err := r.db.SelectContext(ctx, &books, q, args...); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *repository) UpdateBook(ctx context.Context, id int, req model.CreateBookRequest) (model.Book, error) {
	q, args, err := qb.Update(booksTableName).
		Set("title", req.Title).
		Set("author_id", req.AuthorID).
		Set("category_id", req.CategoryID).
		Set("publisher_id", req.PublisherID).
		Set("isbn", req.ISBN).
		Set("publication_date", req.PublicationDate).
		Set("number_of_pages", req.NumberOfPages).
		Set("description", req.Description).
		Set("available_copies", req.AvailableCopies).
		Set("total_copies", req.TotalCopies).
		Where(sq.Eq{"id": id}).
		Suffix("returning " + bookColumns).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		if isUniqueViolation(err) {
			return model.Book{}, errs.ErrDuplicate
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) DeleteBook(ctx context.Context, id int) error {
	return r.deleteByID(ctx, booksTableName, id)
}

func (r *repository) deleteByID(ctx context.Context, table string, id int) error {
	q, args, err := qb.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 { //nolint:errcheck
		return errs.ErrNotFound
	}
	return nil
}

const authorColumns = `id, first_name, last_name, biography, date_of_birth, date_of_death`

func (r *repository) CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (model.Author, error) {
	q, args, err := qb.Insert(authorsTableName).
		Columns("first_name", "last_name", "biography", "date_of_birth", "date_of_death").
		Values(req.FirstName, req.LastName, req.Biography, req.DateOfBirth, req.DateOfDeath).
		Suffix("returning " + authorColumns).
		ToSql()
	if err != nil {
		return model.Author{}, err
	}
	var author model.Author
	if err := r.db.GetContext(ctx, &author, q, args...); err != nil {
		return model.Author{}, err
	}
	return author, nil
}

func (r *repository) GetAuthor(ctx context.Context, id int) (model.Author, error) {
	q, args, err := qb.Select(authorColumns).
		From(authorsTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Author{}, err
	}
	var author model.Author
	if err := r.db.GetContext(ctx, &author, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Author{}, errs.ErrNotFound
		}
		return model.Author{}, err
	}
	return author, nil
}

func (r *repository) ListAuthors(ctx context.Context) ([]model.Author, error) {
	q, args, err := qb.Select(authorColumns).
		From(authorsTableName).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	authors := make([]model.Author, 0)
	if err := r.db.SelectContext(ctx, &authors, q, args...); err != nil {
		return nil, err
	}
	return authors, nil
}

func (r *repository) UpdateAuthor(ctx context.Context, id int, req model.CreateAuthorRequest) (model.Author, error) {
	q, args, err := qb.Update(authorsTableName).
		Set("first_name", req.FirstName).
		Set("last_name", req.LastName).
		Set("biography", req.Biography).
		Set("date_of_birth", req.DateOfBirth).
		Set("date_of_death", req.DateOfDeath).
		Where(sq.Eq{"id": id}).
		Suffix("returning " + authorColumns).
		ToSql()
	if err != nil {
		return model.Author{}, err
	}
	var author model.Author
	if err := r.db.GetContext(ctx, &author, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Author{}, errs.ErrNotFound
		}
		return model.Author{}, err
	}
	return author, nil
}

func (r *repository) DeleteAuthor(ctx context.Context, id int) error {
	return r.deleteByID(ctx, authorsTableName, id)
}

func (r *repository) CreateCategory(ctx context.Context, req model.CreateCategoryRequest) (model.Category, error) {
	q, args, err := qb.Insert(categoriesTableName).
		Columns("title", "description").
		Values(req.Title, req.Description).
		Suffix("returning id, title, description").
		ToSql()
	if err != nil {
		return model.Category{}, err
	}
	var category model.Category
	if err := r.db.GetContext(ctx, &category, q, args...); err != nil {
		return model.Category{}, err
	}
	return category, nil
}

func (r *repository) GetCategory(ctx context.Context, id int) (model.Category, error) {
	q, args, err := qb.Select("id", "title", "description").
		From(categoriesTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Category{}, err
	}
	var category model.Category
	if err := r.db.GetContext(ctx, &category, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Category{}, errs.ErrNotFound
		}
		return model.Category{}, err
	}
	return category, nil
}

func (r *repository) ListCategories(ctx context.Context) ([]model.Category, error) {
	q, args, err := qb.Select("id", "title", "description").
		From(categoriesTableName).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	categories := make([]model.Category, 0)
	if err := r.db.SelectContext(ctx, &categories, q, args...); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repository) UpdateCategory(ctx context.Context, id int, req model.CreateCategoryRequest) (model.Category, error) {
	q, args, err := qb.Update(categoriesTableName).
		Set("title", req.Title).
		Set("description", req.Description).
		Where(sq.Eq{"id": id}).
		Suffix("returning id, title, description").
		ToSql()
	if err != nil {
		return model.Category{}, err
	}
	var category model.Category
	if err := r.db.GetContext(ctx, &category, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Category{}, errs.ErrNotFound
		}
		return model.Category{}, err
	}
	return category, nil
}

func (r *repository) DeleteCategory(ctx context.Context, id int) error {
	return r.deleteByID(ctx, categoriesTableName, id)
}

const publisherColumns = `id, name, address, website, contact_email`

func (r *repository) CreatePublisher(ctx context.Context, req model.CreatePublisherRequest) (model.Publisher, error) {
	q, args, err := qb.Insert(publishersTableName).
		Columns("name", "address", "website", "contact_email").
		Values(req.Name, req.Address, req.Website, req.ContactEmail).
		Suffix("returning " + publisherColumns).
		ToSql()
	if err != nil {
		return model.Publisher{}, err
	}
	var publisher model.Publisher
	if err := r.db.GetContext(ctx, &publisher, q, args...); err != nil {
		return model.Publisher{}, err
	}
	return publisher, nil
}

func (r *repository) GetPublisher(ctx context.Context, id int) (model.Publisher, error) {
	q, args, err := qb.Select(publisherColumns).
		From(publishersTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Publisher{}, err
	}
	var publisher model.Publisher
	if err := r.db.GetContext(ctx, &publisher, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Publisher{}, errs.ErrNotFound
		}
		return model.Publisher{}, err
	}
	return publisher, nil
}

func (r *repository) ListPublishers(ctx context.Context) ([]model.Publisher, error) {
	q, args, err := qb.Select(publisherColumns).
		From(publishersTableName).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	publishers := make([]model.Publisher, 0)
	if err := r.db.SelectContext(ctx, &publishers, q, args...); err != nil {
		return nil, err
	}
	return publishers, nil
}

func (r *repository) UpdatePublisher(ctx context.Context, id int, req model.CreatePublisherRequest) (model.Publisher, error) {
	q, args, err := qb.Update(publishersTableName).
		Set("name", req.Name).
		Set("address", req.Address).
		Set("website", req.Website).
		Set("contact_email", req.ContactEmail).
		Where(sq.Eq{"id": id}).
		Suffix("returning " + publisherColumns).
		ToSql()
	if err != nil {
		return model.Publisher{}, err
	}
	var publisher model.Publisher
	if err := r.db.GetContext(ctx, &publisher, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Publisher{}, errs.ErrNotFound
		}
		return model.Publisher{}, err
	}
	return publisher, nil
}

func (r *repository) DeletePublisher(ctx context.Context, id int) error {
	return r.deleteByID(ctx, publishersTableName, id)
}

const bookCopyColumns = `id, book_id, copy_number, is_borrowed`

func (r *repository) CreateBookCopy(ctx context.Context, req model.CreateBookCopyRequest) (model.BookCopy, error) {
	q, args, err := qb.Insert(bookCopiesTableName).
		Columns("book_id", "copy_number", "is_borrowed").
		Values(req.BookID, req.CopyNumber, req.IsBorrowed).
		Suffix("returning " + bookCopyColumns).
		ToSql()
	if err != nil {
		return model.BookCopy{}, err
	}
	var copy model.BookCopy
	if err := r.db.GetContext(ctx, &copy, q, args...); err != nil {
		if isUniqueViolation(err) {
			return model.BookCopy{}, errs.ErrDuplicate
		}
		return model.BookCopy{}, err
	}
	return copy, nil
}

func (r *repository) GetBookCopy(ctx context.Context, id int) (model.BookCopy, error) {
	q, args, err := qb.Select(bookCopyColumns).
		From(bookCopiesTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.BookCopy{}, err
	}
	var copy model.BookCopy
	if err := r.db.GetContext(ctx, &copy, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BookCopy{}, errs.ErrNotFound
		}
		return model.BookCopy{}, err
	}
	return copy, nil
}

func (r *repository) ListBookCopies(ctx context.Context, bookID *int) ([]model.BookCopy, error) {
	q := qb.Select(bookCopyColumns).
		From(bookCopiesTableName).
		OrderBy("id")
	if bookID != nil {
		q = q.Where(sq.Eq{"book_id": *bookID})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	copies := make([]model.BookCopy, 0)
	if err := r.db.SelectContext(ctx, &copies, query, args...); err != nil {
		return nil, err
	}
	return copies, nil
}

func (r *repository) UpdateBookCopy(ctx context.Context, id int, req model.CreateBookCopyRequest) (model.BookCopy, error) {
	q, args, err := qb.Update(bookCopiesTableName).
		Set("book_id", req.BookID).
		Set("copy_number", req.CopyNumber).
		Set("is_borrowed", req.IsBorrowed).
		Where(sq.Eq{"id": id}).
		Suffix("returning " + bookCopyColumns).
		ToSql()
	if err != nil {
		return model.BookCopy{}, err
	}
	var copy model.BookCopy
	if err := r.db.GetContext(ctx, &copy, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BookCopy{}, errs.ErrNotFound
		}
		return model.BookCopy{}, err
	}
	return copy, nil
}

func (r *repository) DeleteBookCopy(ctx context.Context, id int) error {
	return r.deleteByID(ctx, bookCopiesTableName, id)
}
