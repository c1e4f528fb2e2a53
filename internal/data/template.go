package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"feedback-service/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	kafka "github.com/segmentio/kafka-go"
)

type templateRepo struct {
	data *Data
	log  *log.Helper
}

func NewTemplateRepo(data *Data, logger log.Logger) biz.TemplateRepo {
	return &templateRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *templateRepo) Create(ctx context.Context, in *biz.ReviewTemplate) (int64, error) {
	moods, err := json.Marshal(biz.NormalizeMoods(in.Moods))
	if err != nil {
		return 0, err
	}
	res, err := r.data.DB.ExecContext(ctx, `
        INSERT INTO review_templates (niche, moods)
        VALUES (?, ?)
    `, in.Niche, moods)
	if err != nil {
		return 0, err
	}
	id, _ := res.LastInsertId()
	_ = r.invalidate(ctx, in.Niche)
	out := *in
	out.ID = id
	r.publish(ctx, "create", &out)
	return id, nil
}

func (r *templateRepo) Update(ctx context.Context, in *biz.ReviewTemplate) error {
	prev, err := r.getByID(ctx, in.ID)
	if err != nil {
		return err
	}
	moods, err := json.Marshal(biz.NormalizeMoods(in.Moods))
	if err != nil {
		return err
	}
	_, err = r.data.DB.ExecContext(ctx, `
        UPDATE review_templates
        SET niche = ?, moods = ?
        WHERE id = ?
    `, in.Niche, moods, in.ID)
	if err != nil {
		return err
	}
	_ = r.invalidate(ctx, prev.Niche)
	_ = r.invalidate(ctx, in.Niche)
	r.publish(ctx, "update", in)
	return nil
}

// Delete removes the template only; businesses pointing at its niche
// are left dangling and stop yielding suggestions.
func (r *templateRepo) Delete(ctx context.Context, id int64) error {
	prev, err := r.getByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := r.data.DB.ExecContext(ctx, `DELETE FROM review_templates WHERE id = ?`, id); err != nil {
		return err
	}
	_ = r.invalidate(ctx, prev.Niche)
	r.publish(ctx, "delete", &biz.ReviewTemplate{ID: id, Niche: prev.Niche})
	return nil
}

func (r *templateRepo) GetByNiche(ctx context.Context, niche string) (*biz.ReviewTemplate, error) {
	// try cache first
	key := r.cacheKey(niche)
	if r.data.RDB != nil {
		if s, err := r.data.RDB.Get(ctx, key).Result(); err == nil && len(s) > 0 {
			var out biz.ReviewTemplate
			if json.Unmarshal([]byte(s), &out) == nil {
				out.Moods = biz.NormalizeMoods(out.Moods)
				return &out, nil
			}
		}
	}

	row := r.data.DB.QueryRowContext(ctx, `
        SELECT id, niche, moods, created_at FROM review_templates WHERE niche = ?
    `, niche)
	out, err := scanTemplate(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, biz.ErrTemplateNotFound
		}
		return nil, err
	}

	// set cache
	if r.data.RDB != nil {
		if b, err := json.Marshal(out); err == nil {
			_ = r.data.RDB.Set(ctx, key, string(b), 5*time.Minute).Err()
		}
	}
	return out, nil
}

func (r *templateRepo) getByID(ctx context.Context, id int64) (*biz.ReviewTemplate, error) {
	row := r.data.DB.QueryRowContext(ctx, `
        SELECT id, niche, moods, created_at FROM review_templates WHERE id = ?
    `, id)
	out, err := scanTemplate(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, biz.ErrTemplateNotFound
		}
		return nil, err
	}
	return out, nil
}

func (r *templateRepo) List(ctx context.Context) ([]*biz.ReviewTemplate, error) {
	rows, err := r.data.DB.QueryContext(ctx, `
        SELECT id, niche, moods, created_at
        FROM review_templates
        ORDER BY created_at DESC, id DESC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*biz.ReviewTemplate
	for rows.Next() {
		out, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, out)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *templateRepo) ListNiches(ctx context.Context) ([]string, error) {
	rows, err := r.data.DB.QueryContext(ctx, `SELECT DISTINCT niche FROM review_templates ORDER BY niche ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	niches := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		niches = append(niches, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return niches, nil
}

func scanTemplate(row rowScanner) (*biz.ReviewTemplate, error) {
	var out biz.ReviewTemplate
	var moods []byte
	if err := row.Scan(&out.ID, &out.Niche, &moods, &out.CreatedAt); err != nil {
		return nil, err
	}
	if len(moods) > 0 {
		if err := json.Unmarshal(moods, &out.Moods); err != nil {
			return nil, err
		}
	}
	out.Moods = biz.NormalizeMoods(out.Moods)
	return &out, nil
}

func (r *templateRepo) cacheKey(niche string) string {
	return fmt.Sprintf("template:niche:%s", niche)
}

func (r *templateRepo) invalidate(ctx context.Context, niche string) error {
	if r.data.RDB == nil {
		return nil
	}
	return r.data.RDB.Del(ctx, r.cacheKey(niche)).Err()
}

type templateEvent struct {
	Op      string       `json:"op"`
	Payload *templateDoc `json:"payload"`
	Ts      int64        `json:"ts"`
}

type templateDoc struct {
	ID    int64  `json:"id"`
	Niche string `json:"niche"`
}

func (r *templateRepo) publish(ctx context.Context, op string, t *biz.ReviewTemplate) {
	if r.data.Kafka == nil {
		return
	}
	evt := templateEvent{Op: op, Payload: &templateDoc{ID: t.ID, Niche: t.Niche}, Ts: time.Now().Unix()}
	msg, err := json.Marshal(evt)
	if err != nil {
		r.log.WithContext(ctx).Errorf("marshal event: %v", err)
		return
	}
	_ = r.data.Kafka.WriteMessages(ctx, kafka.Message{Key: []byte("template"), Value: msg})
}
