package cloudwatch

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"

	"github.com/five82/cwlogs/internal/model"
)

// LogsAPI is the subset of the CloudWatch Logs API we use.
type LogsAPI interface {
	DescribeLogGroups(ctx context.Context, params *cloudwatchlogs.DescribeLogGroupsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogGroupsOutput, error)
	FilterLogEvents(ctx context.Context, params *cloudwatchlogs.FilterLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.FilterLogEventsOutput, error)
}

// Client adapts the CloudWatch Logs API to model types, one page per call.
type Client struct {
	api LogsAPI
}

// NewClient wraps api.
func NewClient(api LogsAPI) *Client {
	return &Client{api: api}
}

// Connect loads AWS configuration from opts and the default sources and
// returns a Client backed by the CloudWatch Logs service.
func Connect(ctx context.Context, opts AuthOptions) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, NewCloudWatchOptions(opts)...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewClient(cloudwatchlogs.NewFromConfig(cfg)), nil
}

// ListLogGroups returns one page of log groups.
func (c *Client) ListLogGroups(ctx context.Context, token *string, pageSize int32) ([]model.LogGroup, *string, error) {
	in := &cloudwatchlogs.DescribeLogGroupsInput{NextToken: token}
	if pageSize > 0 {
		in.Limit = aws.Int32(pageSize)
	}
	out, err := c.api.DescribeLogGroups(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	groups := make([]model.LogGroup, 0, len(out.LogGroups))
	for _, g := range out.LogGroups {
		groups = append(groups, toLogGroup(g))
	}
	return groups, out.NextToken, nil
}

// FilterLogEvents returns one page of events of q.LogGroup matching q.Filter
// within [q.Start, q.End]. Empty filter and zero bounds are omitted.
func (c *Client) FilterLogEvents(ctx context.Context, q model.EventQuery, token *string, limit int32) ([]model.LogEvent, *string, error) {
	in := &cloudwatchlogs.FilterLogEventsInput{
		LogGroupName: aws.String(q.LogGroup),
		NextToken:    token,
	}
	if q.Filter != "" {
		in.FilterPattern = aws.String(q.Filter)
	}
	if !q.Start.IsZero() {
		in.StartTime = aws.Int64(q.Start.UnixMilli())
	}
	if !q.End.IsZero() {
		in.EndTime = aws.Int64(q.End.UnixMilli())
	}
	if limit > 0 {
		in.Limit = aws.Int32(limit)
	}
	out, err := c.api.FilterLogEvents(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	events := make([]model.LogEvent, 0, len(out.Events))
	for _, e := range out.Events {
		events = append(events, toLogEvent(e))
	}
	return events, out.NextToken, nil
}

func toLogGroup(g types.LogGroup) model.LogGroup {
	return model.LogGroup{
		ARN:         aws.ToString(g.Arn),
		Name:        aws.ToString(g.LogGroupName),
		CreatedAt:   fromMillis(g.CreationTime),
		StoredBytes: aws.ToInt64(g.StoredBytes),
	}
}

func toLogEvent(e types.FilteredLogEvent) model.LogEvent {
	ev := model.LogEvent{
		ID:        aws.ToString(e.EventId),
		Timestamp: fromMillis(e.Timestamp),
		Ingested:  fromMillis(e.IngestionTime),
		Stream:    aws.ToString(e.LogStreamName),
		Message:   aws.ToString(e.Message),
	}
	if ev.ID == "" {
		ev.ID = ev.Stream + "/" + strconv.FormatInt(aws.ToInt64(e.Timestamp), 10)
	}
	return ev
}

func fromMillis(ms *int64) time.Time {
	if ms == nil {
		return time.Time{}
	}
	return time.UnixMilli(*ms)
}
