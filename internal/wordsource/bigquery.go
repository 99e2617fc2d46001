package wordsource

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// BigQueryParams names the table holding word lists. The table has at least a STRING
// column word_key and a STRING column scope.
type BigQueryParams struct {
	Project  string
	Table    string // fully qualified, e.g. "project.dataset.table"
	Location string
}

// BigQuery loads the words of one scope from a BigQuery table.
type BigQuery struct {
	params BigQueryParams
}

func NewBigQuery(p BigQueryParams) (*BigQuery, error) {
	if p.Project == "" {
		return nil, fmt.Errorf("bigquery project must not be empty")
	}
	if p.Table == "" {
		return nil, fmt.Errorf("bigquery table must not be empty")
	}
	if p.Location == "" {
		p.Location = "US"
	}
	return &BigQuery{params: p}, nil
}

// Query returns the SQL used to load a scope; the scope itself is passed as @scope.
func (b *BigQuery) Query() string {
	return fmt.Sprintf("SELECT word_key FROM `%s` WHERE scope = @scope", b.params.Table)
}

// Words returns every word_key in scope, in the order BigQuery returns them.
func (b *BigQuery) Words(ctx context.Context, scope string) ([]string, error) {
	client, err := bigquery.NewClient(ctx, b.params.Project)
	if err != nil {
		return nil, fmt.Errorf("bigquery.NewClient: %w", err)
	}
	defer client.Close()

	q := client.Query(b.Query())
	q.Location = b.params.Location
	q.Parameters = []bigquery.QueryParameter{
		{Name: "scope", Value: scope},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("q.Run: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("job.Wait: %w", err)
	}
	if err := status.Err(); err != nil {
		return nil, fmt.Errorf("status.Err: %w", err)
	}
	it, err := job.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("job.Read: %w", err)
	}

	var words []string
	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("it.Next: %w", err)
		}

		word, ok := row[0].(string)
		if !ok {
			return nil, fmt.Errorf("row[0] is not a string: %v", row[0])
		}
		words = append(words, word)
	}
	return words, nil
}
