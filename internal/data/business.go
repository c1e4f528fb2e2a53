package data

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"feedback-service/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	kafka "github.com/segmentio/kafka-go"
)

type businessRepo struct {
	data *Data
	log  *log.Helper
}

func NewBusinessRepo(data *Data, logger log.Logger) biz.BusinessRepo {
	return &businessRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *businessRepo) Create(ctx context.Context, in *biz.Business) (int64, error) {
	images, err := json.Marshal(in.MoodImages)
	if err != nil {
		return 0, err
	}
	res, err := r.data.DB.ExecContext(ctx, `
        INSERT INTO businesses (business_name, slug, logo_url, niche, google_review_url, mood_images, mood_count)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `, in.BusinessName, in.Slug, in.LogoURL, in.Niche, in.GoogleReviewURL, images, in.MoodCount)
	if err != nil {
		return 0, err
	}
	id, _ := res.LastInsertId()
	_ = r.invalidate(ctx, in.Slug)
	out := *in
	out.ID = id
	r.publish(ctx, "create", &out)
	return id, nil
}

func (r *businessRepo) GetBySlug(ctx context.Context, slug string) (*biz.Business, error) {
	// try cache first
	key := r.cacheKey(slug)
	if r.data.RDB != nil {
		if s, err := r.data.RDB.Get(ctx, key).Result(); err == nil && len(s) > 0 {
			var out biz.Business
			if json.Unmarshal([]byte(s), &out) == nil {
				return &out, nil
			}
		}
	}

	row := r.data.DB.QueryRowContext(ctx, `
        SELECT id, business_name, slug, logo_url, niche, google_review_url, mood_images, mood_count, created_at
        FROM businesses WHERE slug = ?
    `, slug)
	out, err := scanBusiness(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, biz.ErrBusinessNotFound
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

func (r *businessRepo) GetByID(ctx context.Context, id int64) (*biz.Business, error) {
	row := r.data.DB.QueryRowContext(ctx, `
        SELECT id, business_name, slug, logo_url, niche, google_review_url, mood_images, mood_count, created_at
        FROM businesses WHERE id = ?
    `, id)
	out, err := scanBusiness(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, biz.ErrBusinessNotFound
		}
		return nil, err
	}
	return out, nil
}

func (r *businessRepo) Update(ctx context.Context, in *biz.Business) error {
	prev, err := r.GetByID(ctx, in.ID)
	if err != nil {
		return err
	}
	images, err := json.Marshal(in.MoodImages)
	if err != nil {
		return err
	}
	_, err = r.data.DB.ExecContext(ctx, `
        UPDATE businesses
        SET business_name = ?, slug = ?, logo_url = ?, niche = ?, google_review_url = ?, mood_images = ?, mood_count = ?
        WHERE id = ?
    `, in.BusinessName, in.Slug, in.LogoURL, in.Niche, in.GoogleReviewURL, images, in.MoodCount, in.ID)
	if err != nil {
		return err
	}
	// renaming can change the slug; invalidate both keys
	_ = r.invalidate(ctx, prev.Slug)
	_ = r.invalidate(ctx, in.Slug)
	r.publish(ctx, "update", in)
	return nil
}

func (r *businessRepo) Delete(ctx context.Context, id int64) error {
	prev, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := r.data.DB.ExecContext(ctx, `DELETE FROM businesses WHERE id = ?`, id); err != nil {
		return err
	}
	_ = r.invalidate(ctx, prev.Slug)
	r.publish(ctx, "delete", &biz.Business{ID: id, Slug: prev.Slug})
	return nil
}

func (r *businessRepo) List(ctx context.Context, in *biz.BusinessQuery) ([]*biz.Business, int64, error) {
	// Prefer Elasticsearch for the admin search when available
	if r.data.ES != nil && r.data.ESIndex != "" && in.Q != "" {
		must := []map[string]any{{
			"multi_match": map[string]any{
				"query":    in.Q,
				"fields":   []string{"business_name^2", "niche", "slug"},
				"operator": "and",
			},
		}}
		body := map[string]any{
			"track_total_hits": true,
			"from":             int((in.Page - 1) * in.PageSize),
			"size":             int(in.PageSize),
			"query":            map[string]any{"bool": map[string]any{"must": must}},
			"sort":             []map[string]any{{"ts": map[string]any{"order": "desc"}}},
		}
		b, _ := json.Marshal(body)
		res, err := r.data.ES.Search(r.data.ES.Search.WithIndex(r.data.ESIndex), r.data.ES.Search.WithBody(bytes.NewReader(b)))
		if err != nil {
			r.log.WithContext(ctx).Errorf("es search error: %v", err)
		} else {
			defer res.Body.Close()
			var parsed struct {
				Hits struct {
					Total struct {
						Value int64 `json:"value"`
					} `json:"total"`
					Hits []struct {
						ID     string         `json:"_id"`
						Source map[string]any `json:"_source"`
					} `json:"hits"`
				} `json:"hits"`
			}
			if err := json.NewDecoder(res.Body).Decode(&parsed); err == nil {
				out := make([]*biz.Business, 0, len(parsed.Hits.Hits))
				for _, h := range parsed.Hits.Hits {
					src := h.Source
					var item biz.Business
					if v, ok := src["business_name"].(string); ok {
						item.BusinessName = v
					}
					if v, ok := src["slug"].(string); ok {
						item.Slug = v
					}
					if v, ok := src["niche"].(string); ok {
						item.Niche = v
					}
					if v, ok := src["google_review_url"].(string); ok {
						item.GoogleReviewURL = v
					}
					if v, ok := src["mood_count"].(float64); ok {
						item.MoodCount = int(v)
					}
					var iid int64
					if _, err := fmt.Sscanf(h.ID, "%d", &iid); err == nil {
						item.ID = iid
					}
					out = append(out, &item)
				}
				return out, parsed.Hits.Total.Value, nil
			}
		}
		// fall through to DB if ES errors
	}

	// MySQL pagination, newest first
	offset := (in.Page - 1) * in.PageSize
	where := ""
	args := []any{}
	if in.Q != "" {
		where = `WHERE business_name LIKE ? OR niche LIKE ? OR slug LIKE ?`
		like := "%" + in.Q + "%"
		args = append(args, like, like, like)
	}
	var total int64
	if err := r.data.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM businesses `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	args = append(args, in.PageSize, offset)
	rows, err := r.data.DB.QueryContext(ctx, `
        SELECT id, business_name, slug, logo_url, niche, google_review_url, mood_images, mood_count, created_at
        FROM businesses `+where+`
        ORDER BY created_at DESC, id DESC
        LIMIT ? OFFSET ?
    `, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var list []*biz.Business
	for rows.Next() {
		out, err := scanBusiness(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, out)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBusiness(row rowScanner) (*biz.Business, error) {
	var out biz.Business
	var logo, reviewURL sql.NullString
	var images []byte
	if err := row.Scan(&out.ID, &out.BusinessName, &out.Slug, &logo, &out.Niche, &reviewURL, &images, &out.MoodCount, &out.CreatedAt); err != nil {
		return nil, err
	}
	out.LogoURL = logo.String
	out.GoogleReviewURL = reviewURL.String
	out.MoodImages = []string{}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &out.MoodImages); err != nil {
			return nil, err
		}
	}
	return &out, nil
}

func (r *businessRepo) cacheKey(slug string) string {
	return fmt.Sprintf("business:slug:%s", slug)
}

func (r *businessRepo) invalidate(ctx context.Context, slug string) error {
	if r.data.RDB == nil {
		return nil
	}
	return r.data.RDB.Del(ctx, r.cacheKey(slug)).Err()
}

type businessEvent struct {
	Op      string       `json:"op"`
	Payload *businessDoc `json:"payload"`
	Ts      int64        `json:"ts"`
}

type businessDoc struct {
	ID              int64  `json:"id"`
	BusinessName    string `json:"business_name"`
	Slug            string `json:"slug"`
	Niche           string `json:"niche"`
	GoogleReviewURL string `json:"google_review_url"`
	MoodCount       int    `json:"mood_count"`
}

func (r *businessRepo) publish(ctx context.Context, op string, b *biz.Business) {
	if r.data.Kafka == nil {
		return
	}
	evt := businessEvent{Op: op, Payload: &businessDoc{
		ID:              b.ID,
		BusinessName:    b.BusinessName,
		Slug:            b.Slug,
		Niche:           b.Niche,
		GoogleReviewURL: b.GoogleReviewURL,
		MoodCount:       b.MoodCount,
	}, Ts: time.Now().Unix()}
	msg, err := json.Marshal(evt)
	if err != nil {
		r.log.WithContext(ctx).Errorf("marshal event: %v", err)
		return
	}
	_ = r.data.Kafka.WriteMessages(ctx, kafka.Message{Key: []byte("business"), Value: msg})
}
