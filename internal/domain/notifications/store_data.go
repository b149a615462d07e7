package notifications

import "context"

func (s *Store) CreateDelivery(ctx context.Context, d Delivery) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO notifications (id, type, entity_id, recipient, subject, status, error)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
  `, d.ID, d.Type, d.EntityID, d.Recipient, d.Subject, d.Status, d.Error)
	return err
}

func (s *Store) ListDeliveries(ctx context.Context, entityID string, limit, offset int) ([]Delivery, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, type, entity_id, recipient, subject, status, error, created_at
    FROM notifications
    WHERE ($1 = '' OR entity_id = $1)
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, entityID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Delivery
	for rows.Next() {
		var d Delivery
		if err := rows.Scan(&d.ID, &d.Type, &d.EntityID, &d.Recipient, &d.Subject, &d.Status, &d.Error, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
