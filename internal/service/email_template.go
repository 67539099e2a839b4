package service

const registrationTemplate = `
<html>
<body>
<h2>Welcome!</h2>
<p>Your account has been created. To start using it, please confirm your email by following the link:
<a href="{{verification_link}}">{{verification_link}}</a>
</p>
</body>
</html>
`

const recoveryTemplate = `
<html>
<body>
<h2>Hello, Dear Friend!</h2>
<p>To recover your password, please follow the link:
<a href="{{recovery_link}}">{{recovery_link}}</a>
</p>
</body>
</html>
`
