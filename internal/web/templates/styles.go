package templates

// styles is the panel stylesheet, inlined into every page head.
const styles = `
*{box-sizing:border-box}
body{margin:0;font-family:system-ui,sans-serif;background:#f5f7fb;color:#1f2937}
a{color:inherit}
.sidebar{position:fixed;top:0;left:0;width:16rem;height:100vh;background:#1E3768;color:#fff;padding:1.5rem;display:flex;flex-direction:column}
.sidebar .brand{font-size:1.25rem;font-weight:700;text-align:center;margin-bottom:2.5rem}
.sidebar nav a{display:block;padding:.6rem 1rem;text-decoration:none;border-radius:.4rem}
.sidebar nav a:hover,.sidebar nav a.active{color:#5885C4}
.sidebar .footer{margin-top:auto;text-align:center;font-size:.85rem;color:#d1d5db}
.topbar{margin-left:16rem;background:#fff;box-shadow:0 1px 3px rgba(0,0,0,.1);padding:1rem 1.5rem;display:flex;justify-content:space-between;align-items:center}
.topbar h1{font-size:1.1rem;margin:0;color:#374151}
.topbar button{background:none;border:0;color:#dc2626;font-weight:500;cursor:pointer}
main{margin-left:16rem;padding:2rem}
.cards{display:grid;grid-template-columns:repeat(auto-fit,minmax(12rem,1fr));gap:1rem}
.card{background:#fff;border-radius:.75rem;box-shadow:0 1px 3px rgba(0,0,0,.1);padding:1.25rem}
.card h3{margin:0 0 .5rem;font-size:.95rem;color:#4b5563}
.card p{margin:0;font-size:1.6rem;font-weight:700}
table{width:100%;border-collapse:collapse;background:#fff;font-size:.875rem}
th{background:#f3f4f6;text-transform:uppercase;font-size:.75rem;text-align:left}
th,td{padding:.9rem;white-space:nowrap;border-top:1px solid #e5e7eb}
.badge{padding:.2rem .5rem;border-radius:999px;font-size:.75rem}
.badge-green{background:#dcfce7;color:#166534}.badge-red{background:#fee2e2;color:#991b1b}
.badge-yellow{background:#fef9c3;color:#854d0e}.badge-blue{background:#dbeafe;color:#1e40af}
.badge-gray{background:#f3f4f6;color:#1f2937}
.empty{text-align:center;color:#6b7280;padding:1.5rem}
.alert{border-radius:.5rem;padding:.75rem 1rem;margin-bottom:1rem;position:relative}
.alert-error{background:#fee2e2;color:#991b1b}.alert-success{background:#dcfce7;color:#166534}
.alert .code{font-family:monospace;font-size:.75rem;opacity:.8}
.alert .dismiss{position:absolute;right:.75rem;top:.5rem;background:none;border:0;cursor:pointer;color:inherit}
form.job{background:#fff;border-radius:.75rem;padding:1.5rem;box-shadow:0 1px 3px rgba(0,0,0,.1);display:grid;grid-template-columns:1fr 1fr;gap:1rem}
form.job .wide{grid-column:1/-1}
label{display:block;font-size:.85rem;font-weight:500;margin-bottom:.25rem}
input,select,textarea{width:100%;padding:.5rem .75rem;border:1px solid #d1d5db;border-radius:.5rem;font:inherit}
fieldset{border:1px solid #d1d5db;border-radius:.5rem}
fieldset label{display:inline-flex;gap:.3rem;margin-right:1rem;font-weight:400}
fieldset input[type=checkbox]{width:auto}
.btn{background:#003366;color:#fff;border:0;border-radius:.5rem;padding:.6rem 1.2rem;font-weight:600;cursor:pointer;text-decoration:none}
.btn:hover{background:#001F4D}.btn[disabled]{opacity:.6;cursor:not-allowed}
.link{background:none;border:0;cursor:pointer;padding:0}
.link-blue{color:#2563eb}.link-red{color:#dc2626}
.login{min-height:100vh;display:flex;align-items:center;justify-content:center;background:linear-gradient(to bottom right,#fff,#eff6ff)}
.login .panel{background:#fff;border:1px solid #e5e7eb;padding:2rem;border-radius:1rem;box-shadow:0 20px 25px rgba(0,0,0,.1);width:100%;max-width:28rem}
.login h1{text-align:center;color:#003366;font-weight:600}
.login form > div{margin-bottom:1rem}
.login .btn{width:100%}
`
