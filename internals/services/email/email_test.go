package email_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"eduquest_backend/internals/services/email"
)

func TestMessagesEscapeHTML(t *testing.T) {
	otp := email.OTPMessage("EduQuest", "<b>Ravi</b>", "ravi@example.com", "123456", 10)
	assert.Contains(t, otp.HTML, "Hello &lt;b&gt;Ravi&lt;/b&gt;,")
	assert.NotContains(t, otp.HTML, "<b>Ravi")
	assert.Contains(t, otp.Text, "Hello <b>Ravi</b>,")
	assert.Contains(t, otp.HTML, "<strong>123456</strong>")

	creds := email.CredentialsMessage("EduQuest", "teacher", "Meera", "meera@example.com", "p<&>q")
	assert.Contains(t, creds.HTML, "<code>p&lt;&amp;&gt;q</code>")
	assert.Contains(t, creds.Text, "Password: p<&>q")
	assert.Equal(t, "Meera", creds.To.Name)
}
