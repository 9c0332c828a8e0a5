package provider

import (
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFrom(t *testing.T) {
	tests := []struct {
		name string
		from Sender
		want string
	}{
		{
			name: "name and email",
			from: Sender{Email: "no-reply@example.com", Name: "Campaigns"},
			want: "Campaigns <no-reply@example.com>",
		},
		{
			name: "email only",
			from: Sender{Email: "no-reply@example.com"},
			want: "no-reply@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFrom(tt.from))
		})
	}
}

func TestBuildSendRequest(t *testing.T) {
	from := Sender{Email: "no-reply@example.com", Name: "Campaigns"}
	msg := Message{
		To:      "ann@example.com",
		Subject: "Hello Ann",
		HTML:    "<p>Hi</p>",
		Text:    "Hi",
	}

	req := buildSendRequest(from, msg)

	assert.Equal(t, "Campaigns <no-reply@example.com>", req.From)
	assert.Equal(t, []string{"ann@example.com"}, req.To)
	assert.Equal(t, "Hello Ann", req.Subject)
	assert.Equal(t, "<p>Hi</p>", req.Html)
	assert.Equal(t, "Hi", req.Text)
	assert.NotEmpty(t, req.Headers["X-Entity-Ref-ID"])
	require.Len(t, req.Tags, 1)
	assert.Equal(t, "bulk", req.Tags[0].Value)
}

func TestNormalizeBatchResponse(t *testing.T) {
	tests := []struct {
		name    string
		sent    *resend.BatchEmailResponse
		want    int
		wantErr bool
	}{
		{
			name:    "nil response cannot be mapped",
			sent:    nil,
			want:    2,
			wantErr: true,
		},
		{
			name:    "fewer results than messages cannot be mapped",
			sent:    &resend.BatchEmailResponse{Data: []resend.SendEmailResponse{{Id: "a"}}},
			want:    2,
			wantErr: true,
		},
		{
			name:    "more results than messages cannot be mapped",
			sent:    &resend.BatchEmailResponse{Data: []resend.SendEmailResponse{{Id: "a"}, {Id: "b"}, {Id: "c"}}},
			want:    2,
			wantErr: true,
		},
		{
			name:    "matching counts map positionally",
			sent:    &resend.BatchEmailResponse{Data: []resend.SendEmailResponse{{Id: "a"}, {Id: "b"}}},
			want:    2,
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcomes, err := normalizeBatchResponse(tt.sent, tt.want)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, outcomes)
				return
			}
			require.NoError(t, err)
			require.Len(t, outcomes, tt.want)
			for i, outcome := range outcomes {
				assert.True(t, outcome.OK())
				assert.Equal(t, tt.sent.Data[i].Id, outcome.ProviderMessageID)
			}
		})
	}
}

func TestNormalizeBatchResponse_MissingIDFailsThatPosition(t *testing.T) {
	sent := &resend.BatchEmailResponse{Data: []resend.SendEmailResponse{{Id: "a"}, {Id: ""}}}

	outcomes, err := normalizeBatchResponse(sent, 2)

	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.True(t, outcomes[0].OK())
	assert.False(t, outcomes[1].OK())
	assert.Equal(t, "provider returned no message id", outcomes[1].Err)
}
