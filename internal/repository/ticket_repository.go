package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aryaminakshi71/helpdesk/internal/domain"
)

// TicketFilter captures listing parameters. OrganizationID is mandatory;
// every query is tenant-scoped.
type TicketFilter struct {
	OrganizationID string
	Status         *domain.TicketStatus
	Priority       *domain.TicketPriority
	Category       *domain.TicketCategory
	AssignedTo     *string
	Search         *string
	Limit          int
	Offset         int
}

// TicketRepository encapsulates ticket persistence. Lookups filter by
// organization id so a ticket in another tenant behaves exactly like a
// missing row (pgx.ErrNoRows).
type TicketRepository interface {
	// Create inserts the ticket together with its SLA status row and any
	// initial tags in one transaction, allocating the next ticket number
	// from the organization's sequence.
	Create(ctx context.Context, ticket *domain.Ticket, sla *domain.SLAStatus) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, organizationID, id string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, int, error)
	Delete(ctx context.Context, organizationID, id string) error
	TouchUpdatedAt(ctx context.Context, id string) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, organization_id, ticket_number, subject, description, status, priority,
               category, assigned_to, created_by, requester_name, requester_email,
               created_at, updated_at, resolved_at, closed_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket, sla *domain.SLAStatus) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Transactional increment-and-read keeps numbers strictly monotonic
	// per organization even under concurrent creates.
	var seq int64
	const seqQuery = `
        INSERT INTO ticket_sequences (organization_id, value) VALUES ($1, 1)
        ON CONFLICT (organization_id) DO UPDATE SET value = ticket_sequences.value + 1
        RETURNING value`
	if err := tx.QueryRow(ctx, seqQuery, ticket.OrganizationID).Scan(&seq); err != nil {
		return err
	}
	ticket.TicketNumber = domain.FormatTicketNumber(ticket.OrganizationID, seq)

	const insertTicket = `
        INSERT INTO tickets (organization_id, ticket_number, subject, description, status, priority,
                             category, assigned_to, created_by, requester_name, requester_email)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, insertTicket,
		ticket.OrganizationID,
		ticket.TicketNumber,
		ticket.Subject,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.Category,
		ticket.AssignedTo,
		ticket.CreatedBy,
		ticket.RequesterName,
		ticket.RequesterEmail,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt); err != nil {
		return err
	}

	sla.TicketID = ticket.ID
	const insertSLA = `
        INSERT INTO sla_status (ticket_id, first_response_due, resolution_due, current_status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, insertSLA,
		sla.TicketID,
		sla.FirstResponseDue,
		sla.ResolutionDue,
		sla.CurrentStatus,
	).Scan(&sla.ID, &sla.CreatedAt, &sla.UpdatedAt); err != nil {
		return err
	}

	for _, tag := range ticket.Tags {
		const insertTag = `INSERT INTO ticket_tags (ticket_id, tag) VALUES ($1,$2)`
		if _, err := tx.Exec(ctx, insertTag, ticket.ID, tag); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET subject=$1, description=$2, status=$3, priority=$4, category=$5,
            assigned_to=$6, requester_name=$7, requester_email=$8, resolved_at=$9, closed_at=$10,
            updated_at=NOW()
        WHERE id=$11 AND organization_id=$12`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Subject,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.Category,
		ticket.AssignedTo,
		ticket.RequesterName,
		ticket.RequesterEmail,
		ticket.ResolvedAt,
		ticket.ClosedAt,
		ticket.ID,
		ticket.OrganizationID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, organizationID, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1 AND organization_id=$2`, ticketColumns)
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id, organizationID).Scan(
		&ticket.ID,
		&ticket.OrganizationID,
		&ticket.TicketNumber,
		&ticket.Subject,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Category,
		&ticket.AssignedTo,
		&ticket.CreatedBy,
		&ticket.RequesterName,
		&ticket.RequesterEmail,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ResolvedAt,
		&ticket.ClosedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, int, error) {
	clauses := []string{"organization_id=$1"}
	args := []any{filter.OrganizationID}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		clauses = append(clauses, fmt.Sprintf("LOWER(subject) LIKE $%d", len(args)))
	}

	where := strings.Join(clauses, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM tickets WHERE %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tickets, err := scanTickets(rows)
	if err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

func (r *ticketRepository) Delete(ctx context.Context, organizationID, id string) error {
	const query = `DELETE FROM tickets WHERE id=$1 AND organization_id=$2`
	cmd, err := r.pool.Exec(ctx, query, id, organizationID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) TouchUpdatedAt(ctx context.Context, id string) error {
	const query = `UPDATE tickets SET updated_at=NOW() WHERE id=$1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.OrganizationID,
			&ticket.TicketNumber,
			&ticket.Subject,
			&ticket.Description,
			&ticket.Status,
			&ticket.Priority,
			&ticket.Category,
			&ticket.AssignedTo,
			&ticket.CreatedBy,
			&ticket.RequesterName,
			&ticket.RequesterEmail,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
			&ticket.ResolvedAt,
			&ticket.ClosedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
