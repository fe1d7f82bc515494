package globalchat

// Rules is shown by /global rules
const Rules = `1. No advertising. Invites and links are redacted anyway.
2. Keep it safe for work.
3. Do not post malicious links or files.
4. Slurs and harassment get you blacklisted everywhere.
5. Every message is copied to the moderation channel.
6. Server admins may blacklist users and servers from their own channel.
7. Global moderators may revoke access to any chat without notice.`
